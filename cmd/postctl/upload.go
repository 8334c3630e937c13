package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/postdesk/internal/dashboard"

	"github.com/spf13/cobra"
)

func newUploadCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload an image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := app.opContext(cmd)
			defer cancel()

			result, err := app.container.UploadService.UploadBytes(ctx, filepath.Base(args[0]), "", data)
			if err != nil {
				return fmt.Errorf("Error uploading image: %s", dashboard.DescribeError(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.URL)
			return nil
		},
	}
}
