package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/httplog/v3"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Env     string // optional .env file, loaded before the process environment is read
}

// NewRootCommand creates the root command for the attendance service.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "attendance-scan",
		Short:        "QR code staff attendance service",
		Long:         "Issues office QR codes and records staff check-in, check-out and absence permissions.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Env, "env-file", "", "path to an env file")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

// setupLogger installs the ECS JSON logger as the process default.
func setupLogger(level slog.Level, env string, verbose bool) {
	if verbose {
		level = slog.LevelDebug
	}

	logFormat := httplog.SchemaECS.Concise(env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-scan"),
		slog.String("env", env),
	)
	slog.SetDefault(logger)
}

func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}
