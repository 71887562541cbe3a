package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"resume-formatter/internal/formatting"
)

type editOptions struct {
	latex    string
	prompt   string
	compile  bool
	out      string
	latexOut string
}

func newEditCmd(env Env) *cobra.Command {
	opts := &editOptions{}
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Apply a natural language change to a LaTeX resume",
		Example: `  resumectl edit --latex resume.tex --prompt "Move education above experience"
  cat resume.tex | resumectl edit --prompt "Shorten the summary" --compile --out resume.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, env, opts)
		},
	}
	cmd.Flags().StringVar(&opts.latex, "latex", "-", "LaTeX source to edit, - for stdin")
	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "Edit request")
	cmd.Flags().BoolVar(&opts.compile, "compile", false, "Compile the edited document")
	cmd.Flags().StringVar(&opts.out, "out", "edited_resume.pdf", "Where to write the PDF when --compile is set")
	cmd.Flags().StringVar(&opts.latexOut, "latex-out", "-", "Where to write the edited LaTeX, - for stdout")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func runEdit(cmd *cobra.Command, env Env, opts *editOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := readInput(cmd, opts.latex)
	if err != nil {
		return fmt.Errorf("read latex: %w", err)
	}

	svc, err := env.NewService(ctx, env.LoadConfig())
	if err != nil {
		return err
	}

	res, editErr := svc.Edit(ctx, formatting.EditInput{
		RunID:   uuid.NewString(),
		Latex:   string(src),
		Prompt:  opts.prompt,
		Compile: opts.compile,
	})
	if res.Latex != "" {
		if err := writeOutput(cmd, opts.latexOut, []byte(res.Latex)); err != nil {
			return err
		}
	}
	if editErr != nil {
		return stageFailure("edit", editErr)
	}

	if opts.compile {
		if err := writeOutput(cmd, opts.out, res.PDF); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "run %s: wrote %s (%d bytes)\n", res.RunID, opts.out, len(res.PDF))
	}
	return nil
}
