// Command app runs the shopping list API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wichananm65/grocery-list-backend/internal/config"
	"github.com/wichananm65/grocery-list-backend/internal/logger"
	"go.uber.org/zap"
)

var (
	configPath string
	debug      bool

	cfg config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "app",
	Short:         "Shopping list API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if debug {
			cfg.Debug = true
		}
		log, err = logger.New(cfg.Debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
