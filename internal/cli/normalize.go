package cli

import (
	"github.com/spf13/cobra"

	"resume-formatter/internal/latex"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file]",
		Short: "Apply the model output fixes to a LaTeX file",
		Long: `normalize strips code fences and non-ASCII bytes, repairs color package
options, escapes ampersands in section headings and replaces unknown
document classes. The result is written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			src, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			return writeOutput(cmd, "-", []byte(latex.Normalize(string(src))))
		},
	}
}
