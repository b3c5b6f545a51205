package cmd

import (
	"context"
	"fmt"
	"os"

	"drive-mirror/internal/auth"
	"drive-mirror/internal/config"
	"drive-mirror/internal/drive"
	"drive-mirror/internal/driveurl"
	"drive-mirror/internal/journal"
	"drive-mirror/internal/logger"
	"drive-mirror/internal/mirror"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	noServiceAccount   bool
	serviceAccountFile string
	credentialsFile    string
	tokenFile          string
	journalFile        string
	logFile            string
	pageSize           int64
	verbose            bool
)

// rootCmd represents the base command when called without any subcommands.
// Called directly it mirrors one shared folder and exits.
var rootCmd = &cobra.Command{
	Use:   "drive-mirror <shared_url> <download_path>",
	Short: "Mirror a shared Google Drive folder to a local directory",
	Long: `drive-mirror walks a shared Google Drive folder recursively and downloads
every binary file into a matching local directory tree.

It authorizes with a service account key by default; pass --no-service-account
to run the browser consent flow instead. Items that fail to list or download
are logged and skipped, so one bad file never aborts the walk.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is the main entry point for the CLI application.
// Setup failures exit non-zero; per-item download failures do not.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal: runMirror reaches back to
	// rootCmd through loadConfig, which would otherwise be an
	// initialization cycle.
	rootCmd.RunE = runMirror
	rootCmd.PersistentFlags().BoolVar(&noServiceAccount, "no-service-account", false, "Authorize with the browser consent flow instead of a service account key")
	rootCmd.PersistentFlags().StringVar(&serviceAccountFile, "service-account-file", config.DefaultServiceAccountFile, "Path of the service account key JSON")
	rootCmd.PersistentFlags().StringVar(&credentialsFile, "credentials-file", config.DefaultCredentialsFile, "Path of the OAuth client JSON used by the consent flow")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", config.DefaultTokenFile, "Path of the cached consent token")
	rootCmd.PersistentFlags().StringVar(&journalFile, "journal-file", config.DefaultJournalFile, "Path of the run journal database")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Tee log output into this rotated file")
	rootCmd.PersistentFlags().Int64Var(&pageSize, "page-size", 1000, "Entries requested per folder listing page (1-1000)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every mirrored item")
}

// loadConfig merges the environment configuration with any flags given on
// the command line and turns on file logging when requested.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := rootCmd.PersistentFlags()
	if flags.Changed("service-account-file") {
		cfg.ServiceAccountFile = serviceAccountFile
	}
	if flags.Changed("credentials-file") {
		cfg.CredentialsFile = credentialsFile
	}
	if flags.Changed("token-file") {
		cfg.TokenFile = tokenFile
	}
	if flags.Changed("journal-file") {
		cfg.JournalFile = journalFile
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("page-size") {
		if pageSize < 1 || pageSize > 1000 {
			return nil, fmt.Errorf("page size must be between 1 and 1000, got %d", pageSize)
		}
		cfg.PageSize = pageSize
	}
	if cfg.LogFile != "" {
		logger.EnableFile(cfg.LogFile)
	}
	return cfg, nil
}

func runMirror(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return executeMirror(cmd.Context(), cfg, args[0], args[1], !noServiceAccount)
}

// executeMirror is the pipeline behind both the command line and the
// interactive form: resolve the link, authorize, walk, journal, summarize.
// It returns an error only for setup failures; per-item failures are
// logged, counted and reflected in the run status.
func executeMirror(ctx context.Context, cfg *config.Config, link, dest string, useServiceAccount bool) error {
	folderID, err := driveurl.ExtractFolderID(link)
	if err != nil {
		return err
	}

	mode := auth.ModeInteractive
	if useServiceAccount {
		mode = auth.ModeServiceAccount
	}
	ts, err := auth.TokenSource(ctx, mode, auth.Options{
		ServiceAccountFile: cfg.ServiceAccountFile,
		CredentialsFile:    cfg.CredentialsFile,
		TokenFile:          cfg.TokenFile,
	})
	if err != nil {
		return err
	}
	if err := auth.Verify(ts, mode); err != nil {
		return err
	}

	client, err := drive.NewClient(ctx, ts)
	if err != nil {
		return fmt.Errorf("failed to create drive client: %w", err)
	}
	client.SetPageSize(cfg.PageSize)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("destination %s is not usable: %w", dest, err)
	}

	runID := uuid.NewString()
	walker := mirror.NewWalker(client)

	j, err := journal.Open(cfg.JournalFile)
	if err != nil {
		// The journal is bookkeeping; a broken database must not stop
		// the download.
		logger.Warning("Run journal unavailable: %v", err)
	} else {
		defer j.Close()
		if err := j.BeginRun(runID, folderID, dest); err != nil {
			logger.Warning("Failed to record run %s: %v", runID, err)
		}
		walker.OnResult = func(r mirror.Result) {
			item := journal.Item{
				RunID:  runID,
				Name:   r.Name,
				Path:   r.Path,
				Kind:   r.Kind,
				Status: r.Status,
				Size:   r.Size,
			}
			if r.Err != nil {
				item.Error = r.Err.Error()
			}
			if err := j.RecordItem(item); err != nil {
				logger.Debug("Failed to journal %s: %v", r.Path, err)
			}
		}
	}

	logger.Info("Mirroring folder %s into %s", folderID, dest)
	stats, err := walker.Walk(ctx, folderID, dest)
	if err != nil {
		return err
	}

	status := journal.StatusCompleted
	if stats.Failed > 0 {
		status = journal.StatusPartial
		logger.Warning("Completed with failures: %s", stats.Summary())
		if j != nil {
			logger.Warning("Run 'drive-mirror report --run %s' to list the failed items", runID)
		}
	} else {
		logger.Info("Completed: %s", stats.Summary())
	}
	if j != nil {
		if err := j.FinishRun(runID, status, journal.Totals{
			Folders: stats.Folders,
			Files:   stats.Files,
			Bytes:   stats.Bytes,
			Skipped: stats.Skipped,
			Failed:  stats.Failed,
		}); err != nil {
			logger.Warning("Failed to close run %s: %v", runID, err)
		}
	}
	return nil
}
