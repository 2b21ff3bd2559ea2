package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"josephlewis.net/osh/core/engine"
	"josephlewis.net/osh/core/logger"
	"josephlewis.net/osh/core/shell"
)

// runCmd starts the interactive shell.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		logFd, err := configuration.OpenEventLog()
		if err != nil {
			return err
		}
		defer logFd.Close()

		events := logger.NewJsonLinesLogRecorder(logFd).NewSession()
		_ = events.Record(&logger.SessionStart{User: os.Getenv("USER"), Interactive: true})

		engine.Setup()
		defer engine.Teardown()

		return shell.New(configuration, engine.StdIOStreams(), events).Run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
