package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/postdesk/internal/config"
	"github.com/postdesk/internal/logger"
	"github.com/postdesk/internal/provider"

	"github.com/spf13/cobra"
)

// containerLoader 延迟构建依赖容器，测试中可替换
type containerLoader func(driver string) (*provider.Container, error)

func loadContainer(driver string) (*provider.Container, error) {
	cfg := config.Load()
	if driver = strings.TrimSpace(driver); driver != "" {
		cfg.ContentStore.Driver = driver
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	return provider.NewContainer(cfg), nil
}

type cli struct {
	load      containerLoader
	container *provider.Container
	driver    string
	timeout   time.Duration
}

func (c *cli) prepare(cmd *cobra.Command, args []string) error {
	if c.container != nil {
		return nil
	}
	container, err := c.load(c.driver)
	if err != nil {
		return err
	}
	c.container = container
	return nil
}

func (c *cli) opContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	if c.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.timeout)
}

func newRootCmd(load containerLoader) *cobra.Command {
	app := &cli{load: load}
	root := &cobra.Command{
		Use:   "postctl",
		Short: "Manage posts stored on the content platform",
		Long: `postctl runs the same post operations as the admin API from a terminal.

Available commands:
  list        - List posts, newest first
  export      - Export all posts as CSV
  import      - Import posts from a CSV file
  delete      - Delete a post by ID
  categories  - Add, remove or replace a post's categories
  upload      - Upload an image and print its URL`,
		SilenceUsage:      true,
		PersistentPreRunE: app.prepare,
	}
	root.PersistentFlags().StringVar(&app.driver, "driver", "", "Content store driver override (remote or memory)")
	root.PersistentFlags().DurationVar(&app.timeout, "timeout", 2*time.Minute, "Operation timeout")

	root.AddCommand(newListCmd(app))
	root.AddCommand(newExportCmd(app))
	root.AddCommand(newImportCmd(app))
	root.AddCommand(newDeleteCmd(app))
	root.AddCommand(newCategoriesCmd(app))
	root.AddCommand(newUploadCmd(app))
	return root
}

func main() {
	if err := newRootCmd(loadContainer).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
