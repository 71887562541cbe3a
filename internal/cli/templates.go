package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"resume-formatter/internal/templates"
)

func newTemplatesCmd(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect and publish the LaTeX templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the template catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
			for _, tpl := range templates.Catalog {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", tpl.ID, tpl.Name, tpl.Description)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Copy the built-in templates to the configured TEMPLATE_STORE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg := env.LoadConfig()
			if cfg.TemplateStore == "" || cfg.TemplateStore == "embedded" {
				return fmt.Errorf("TEMPLATE_STORE is embedded; set it to local or s3 to push")
			}
			dst, err := templates.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			keys, err := templates.Push(ctx, templates.EmbeddedStore{}, dst)
			for _, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "pushed %s\n", key)
			}
			return err
		},
	})

	return cmd
}
