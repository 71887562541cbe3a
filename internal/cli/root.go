// Package cli implements resumectl, a command line front end to the
// formatting pipeline.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"resume-formatter/internal/bootstrap"
	"resume-formatter/internal/formatting"
	"resume-formatter/internal/shared/config"
)

// Env supplies the collaborators the commands need.
type Env struct {
	LoadConfig func() config.Config
	NewService func(ctx context.Context, cfg config.Config) (*formatting.Service, error)
}

// DefaultEnv reads configuration from the environment and builds the same
// pipeline the API uses.
func DefaultEnv() Env {
	return Env{
		LoadConfig: config.Load,
		NewService: func(ctx context.Context, cfg config.Config) (*formatting.Service, error) {
			gin.SetMode(gin.ReleaseMode)
			app, err := bootstrap.Build(cfg)
			if err != nil {
				return nil, err
			}
			return app.FormattingService, nil
		},
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand(env Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "resumectl",
		Short: "Reformat resumes into LaTeX templates",
		Long: `resumectl runs the resume formatting pipeline locally.

It extracts text from a PDF or DOCX resume, asks the configured model to
rewrite it into one of the built-in LaTeX templates and compiles the result
with pdflatex. Configuration is read from the same environment variables as
the API server.`,
		SilenceUsage: true,
	}

	root.AddCommand(newGenerateCmd(env))
	root.AddCommand(newEditCmd(env))
	root.AddCommand(newNormalizeCmd())
	root.AddCommand(newTemplatesCmd(env))
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand(DefaultEnv()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func stageFailure(action string, err error) error {
	if stage := formatting.StageOf(err); stage != "" {
		return fmt.Errorf("%s failed at %s: %w", action, stage, err)
	}
	return fmt.Errorf("%s failed: %w", action, err)
}
