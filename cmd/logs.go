package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"josephlewis.net/osh/core/logger"
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log"},
	Short:   "Print the shell's event log.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		fd, err := configuration.ReadEventLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		out := cmd.OutOrStdout()
		return logger.ReadJSONLinesLog(fd, func(le *logger.LogEntry) {
			timestamp := time.UnixMicro(le.TimestampMicros).UTC().Format(time.RFC3339)
			fmt.Fprintf(out, "%s [%s] %s\n", timestamp, le.SessionID, le.Summary())
		})
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
}
