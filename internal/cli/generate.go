package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"resume-formatter/internal/formatting"
)

type generateOptions struct {
	file       string
	templateID string
	singlePage bool
	out        string
	latexOut   string
}

func newGenerateCmd(env Env) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Reformat a PDF or DOCX resume into a template",
		Example: `  resumectl generate --file resume.pdf --template 2 --out resume-modern.pdf
  resumectl generate --file cv.docx --single-page=false --latex-out cv.tex`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, env, opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "Resume to reformat (.pdf or .docx)")
	cmd.Flags().StringVar(&opts.templateID, "template", "1", "Template id")
	cmd.Flags().BoolVar(&opts.singlePage, "single-page", true, "Ask the model to fit the resume on one page")
	cmd.Flags().StringVar(&opts.out, "out", formatting.DownloadName, "Where to write the compiled PDF")
	cmd.Flags().StringVar(&opts.latexOut, "latex-out", "", "Also write the generated LaTeX here")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runGenerate(cmd *cobra.Command, env Env, opts *generateOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := readInput(cmd, opts.file)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	svc, err := env.NewService(ctx, env.LoadConfig())
	if err != nil {
		return err
	}

	res, genErr := svc.Generate(ctx, formatting.GenerateInput{
		RunID:      uuid.NewString(),
		Data:       data,
		FileName:   filepath.Base(opts.file),
		TemplateID: opts.templateID,
		SinglePage: opts.singlePage,
	})
	if opts.latexOut != "" && res.Latex != "" {
		if err := writeOutput(cmd, opts.latexOut, []byte(res.Latex)); err != nil {
			return err
		}
	}
	if genErr != nil {
		return stageFailure("generate", genErr)
	}

	if err := writeOutput(cmd, opts.out, res.PDF); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "run %s: wrote %s (%d bytes)\n", res.RunID, opts.out, len(res.PDF))
	return nil
}
