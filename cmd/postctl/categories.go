package main

import (
	"fmt"
	"strings"

	"github.com/postdesk/internal/dashboard"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Add, remove or replace a post's categories",
		Long: `Manage the categories of a single post.

Available subcommands:
  add    - Add one category (no-op when already present)
  remove - Remove one category
  set    - Replace the whole category set
  vocab  - Print the configured category vocabulary`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <post-id> <category>",
		Short: "Add one category to a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.opContext(cmd)
			defer cancel()

			changed, err := app.container.PostService.AddCategory(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("Error: %s", dashboard.DescribeError(err))
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), "Category already exists")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Category added successfully!")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <post-id> <category>",
		Short: "Remove one category from a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.opContext(cmd)
			defer cancel()

			if _, err := app.container.PostService.RemoveCategory(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("Error: %s", dashboard.DescribeError(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Category removed successfully!")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <post-id> <category>[,<category>...]",
		Short: "Replace a post's categories",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.opContext(cmd)
			defer cancel()

			if err := app.container.PostService.ReplaceCategories(ctx, args[0], strings.Split(args[1], ",")); err != nil {
				return fmt.Errorf("Error updating categories: %s", dashboard.DescribeError(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Categories updated successfully!")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "vocab",
		Short: "Print the configured category vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, option := range app.container.CategoryService.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", option.Value, option.Label)
			}
			return nil
		},
	})
	return cmd
}
