package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"intervox/internal/api"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage analysis templates",
	}

	templatesCmd.AddCommand(newTemplatesListCommand(ctx))
	templatesCmd.AddCommand(newTemplatesCreateCommand(ctx))
	templatesCmd.AddCommand(newTemplatesDeleteCommand(ctx))

	return templatesCmd
}

func newTemplatesListCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available analysis templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				templates, err := client.ListTemplates(cmd.Context())
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, templates)
				}

				out := cmd.OutOrStdout()
				if len(templates) == 0 {
					fmt.Fprintln(out, "No templates found")
					return nil
				}
				rows := make([][]string, 0, len(templates))
				for _, tpl := range templates {
					rows = append(rows, []string{
						tpl.ID,
						tpl.Name,
						truncate(tpl.Description, 50),
						yesNo(tpl.IsSystem),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Description", "System"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newTemplatesCreateCommand(ctx *commandContext) *cobra.Command {
	var descriptionFlag string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an analysis template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("template name is empty")
			}
			return ctx.withClient(func(client *api.Client) error {
				created, err := client.CreateTemplate(cmd.Context(), api.TemplateRequest{
					Name:        name,
					Description: descriptionFlag,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created template %s (%s)\n", created.Name, created.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&descriptionFlag, "description", "d", "", "Template description")
	return cmd
}

func newTemplatesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TEMPLATE_ID",
		Short: "Delete an analysis template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				if err := client.DeleteTemplate(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", args[0])
				return nil
			})
		},
	}
}
