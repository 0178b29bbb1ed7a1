package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tcg/internal/config"
	"tcg/internal/content"
	"tcg/internal/generator"
	"tcg/internal/generator/comments"
	"tcg/internal/logging"
	"tcg/internal/options"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	contentStore content.Store
	optionStore  options.Store
	registry     *generator.Registry
)

var rootCmd = &cobra.Command{
	Use:   "tcg",
	Short: "TCG generates test content for a content store",
	Long: `A test content generator that fills a content store with realistic sample data.
Every generator can be driven from the command line, a settings UI in the browser,
or as tools of an MCP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		// A missing log file is not fatal; EnableFile already warned.
		_ = logging.EnableFile(cfg.LogDir)

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("content", cfg.Content.Driver).
			Str("options", cfg.Options.Driver).
			Msg("TCG starting")

		return openStores(cmd.Context())
	},
}

// openStores connects the configured stores and registers every generator.
func openStores(ctx context.Context) error {
	var err error
	contentStore, err = content.Open(ctx, cfg.Content)
	if err != nil {
		return fmt.Errorf("failed to open content store: %w", err)
	}
	optionStore, err = options.Open(cfg.Options)
	if err != nil {
		return fmt.Errorf("failed to open options store: %w", err)
	}

	registry = generator.NewRegistry(optionStore, nil)

	gen, err := comments.New(ctx, contentStore)
	if err != nil {
		return err
	}
	if _, err := registry.Initialize(ctx, gen); err != nil {
		return err
	}
	return nil
}

func closeStores() {
	if contentStore != nil {
		if err := contentStore.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close content store")
		}
	}
	if optionStore != nil {
		if err := optionStore.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close options store")
		}
	}
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeStores()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
