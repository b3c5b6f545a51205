package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"drive-mirror/internal/logger"
	"drive-mirror/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var guiCmd = &cobra.Command{
	Use:   "gui [shared_url] [download_path]",
	Short: "Open the interactive download form",
	Long: `Opens a full-screen form for entering the shared folder link and the
download path. The mirror runs on a background goroutine while its log
output streams into the form.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the form needs an interactive terminal; use the plain command instead")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := tui.Options{
		Run: func(ctx context.Context, link, dest string, useServiceAccount bool, logs io.Writer) error {
			// Route log output into the form's log pane for the
			// duration of the run.
			logger.SetOutput(logs)
			defer logger.SetOutput(os.Stdout)
			return executeMirror(ctx, cfg, link, dest, useServiceAccount)
		},
	}
	if len(args) > 0 {
		opts.DefaultLink = args[0]
	}
	if len(args) > 1 {
		opts.DefaultDest = args[1]
	}
	return tui.Run(opts)
}
