package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/trendfinder/internal/apperror"
)

// IdeaGenerator produces text for a post title. *idea.Generator implements it.
type IdeaGenerator interface {
	Generate(ctx context.Context, title string) (string, error)
}

// ideaInput uses the same title rule as CreateBookmarkInput, so any title
// that can be bookmarked can also be sent for an idea.
type ideaInput struct {
	Title string `json:"title" validate:"required,max=300"`
}

// IdeaService validates titles and delegates to the generator.
type IdeaService struct {
	gen      IdeaGenerator
	validate *validator.Validate
	logger   *slog.Logger
}

// NewIdeaService creates an IdeaService.
func NewIdeaService(gen IdeaGenerator, logger *slog.Logger) *IdeaService {
	return &IdeaService{gen: gen, validate: newValidator(), logger: logger}
}

// Generate returns a content idea for title, verbatim from the generator.
func (s *IdeaService) Generate(ctx context.Context, title string) (string, error) {
	in := ideaInput{Title: strings.TrimSpace(title)}
	if err := s.validate.Struct(in); err != nil {
		return "", validationError(err, "Missing title")
	}

	text, err := s.gen.Generate(ctx, in.Title)
	if err != nil {
		s.logger.Error("idea generation failed", slog.String("error", err.Error()))
		return "", apperror.Upstream("Failed to generate idea", err.Error())
	}
	return text, nil
}
