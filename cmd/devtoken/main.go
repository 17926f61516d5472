// Command devtoken mints and checks access tokens signed with the local
// SUPABASE_JWT_SECRET, so the API can be exercised with curl without going
// through the hosted sign-in flow.
//
//	devtoken issue --sub 7f1c... --email me@example.com
//	devtoken verify "$TOKEN"
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/trendfinder/internal/auth"
	"github.com/sakif/trendfinder/internal/config"
)

var (
	subject string
	email   string
	ttl     time.Duration
)

func main() {
	c := &cobra.Command{
		Use:   "devtoken",
		Short: "Development access tokens for the TrendFinder API",
		Args:  cobra.NoArgs,
	}

	issueCmd.Flags().StringVar(&subject, "sub", "", "user id (JWT subject)")
	issueCmd.Flags().StringVar(&email, "email", "", "user email")
	issueCmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = issueCmd.MarkFlagRequired("sub")
	_ = issueCmd.MarkFlagRequired("email")
	c.AddCommand(issueCmd)
	c.AddCommand(verifyCmd)

	if err := c.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	issueCmd = &cobra.Command{
		Use:   "issue",
		Short: "Print a signed access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := verifier()
			if err != nil {
				return err
			}
			token, err := v.Issue(subject, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	verifyCmd = &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Check a token the way the API does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := verifier()
			if err != nil {
				return err
			}
			claims, err := v.Verify(args[0])
			if err != nil {
				return err
			}
			exp := "none"
			if claims.ExpiresAt != nil {
				exp = claims.ExpiresAt.Time.Format(time.RFC3339)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sub=%s email=%s expires=%s\n", claims.Subject, claims.Email, exp)
			return nil
		},
	}
)

func verifier() (*auth.Verifier, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SUPABASE_JWT_SECRET is not set")
	}
	return auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience)
}
