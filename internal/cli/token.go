package cli

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	UserID int64
	Role   string
	TTL    time.Duration
}

// NewTokenCommand creates the token command, which signs an access token
// with the configured secret for local testing and service accounts.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.UserID <= 0 {
				return fmt.Errorf("--user must be a positive id")
			}
			if opts.Role != jwt.RoleAdmin && opts.Role != jwt.RoleStaff {
				return fmt.Errorf("invalid role %q: must be %s or %s", opts.Role, jwt.RoleAdmin, jwt.RoleStaff)
			}

			cfg, err := loadConfig(opts.RootOptions)
			if err != nil {
				return err
			}

			token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret).GenerateAccessToken(opts.UserID, opts.Role, opts.TTL)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.UserID, "user", 0, "user id placed in the token")
	cmd.Flags().StringVar(&opts.Role, "role", jwt.RoleStaff, "role claim (admin|staff)")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
