package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/postdesk/internal/dashboard"

	"github.com/spf13/cobra"
)

func newListCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.opContext(cmd)
			defer cancel()

			posts, err := app.container.PostService.List(ctx)
			if err != nil {
				return fmt.Errorf("%s", dashboard.DescribeError(err))
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPRICE\tCATEGORIES\tCREATED")
			for _, post := range posts {
				created := ""
				if !post.CreatedAt.IsZero() {
					created = post.CreatedAt.UTC().Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					post.ID, post.Slug, post.Title, post.Price.String(), post.Categories.Join(", "), created)
			}
			return w.Flush()
		},
	}
}

func newExportCmd(app *cli) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all posts as CSV",
		Long: `Export all posts as CSV.

Without --output the CSV is written to stdout. With --output pointing to a
directory the default file name (<prefix>-posts-YYYY-MM-DD.csv) is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.opContext(cmd)
			defer cancel()

			result, err := app.container.PostTransferService.ExportCSV(ctx)
			if err != nil {
				return fmt.Errorf("Error exporting CSV: %s", dashboard.DescribeError(err))
			}
			if output == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), result.CSV)
				return err
			}
			path := output
			if info, statErr := os.Stat(output); statErr == nil && info.IsDir() {
				path = filepath.Join(output, result.Filename)
			}
			if err := os.WriteFile(path, []byte(result.CSV), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Successfully exported %d posts to CSV (%s)\n", result.Count, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory")
	return cmd
}

func newImportCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import posts from a CSV file",
		Long: `Import posts from a CSV file produced by export.

The first line is always treated as the header. Rows that fail are reported
and skipped; the remaining rows are still imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := app.opContext(cmd)
			defer cancel()

			result, err := app.container.PostTransferService.ImportCSV(ctx, string(data))
			if err != nil && result == nil {
				return fmt.Errorf("Error importing CSV: %s", dashboard.DescribeError(err))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Successfully imported %d post(s)\n", result.Imported)
			if len(result.Errors) > 0 {
				fmt.Fprintln(out, "\nErrors:")
				for _, line := range result.Errors {
					fmt.Fprintln(out, line)
				}
			}
			return err
		},
	}
}

func newDeleteCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a post by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.opContext(cmd)
			defer cancel()

			if err := app.container.PostService.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("Error deleting post: %s", dashboard.DescribeError(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Post deleted successfully!")
			return nil
		},
	}
}
