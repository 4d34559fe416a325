package cmd

import (
	"fmt"
	"os"

	"oppgave-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "oppgave-sync",
	Short: "Oppgave Sync Service",
	Long: `Oppgave Sync keeps klage oppgaver in sync with the central oppgave system.
It maintains a versioned local copy, derives hjemler from free-text
descriptions and writes them back, driven by the oppgave change stream
or one-shot batch runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format matches CLI expectations, debug level gives
		// ISO8601 timestamps instead of epoch.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
