package cli

import (
	"encoding/json"
	"fmt"

	"ai-imagegen-be/internal/config"
	"ai-imagegen-be/internal/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().String("file", "", "Log file (defaults to LOG_FILE_PATH)")
	logsCmd.Flags().String("level", "", "Only entries of this level, e.g. error")
	logsCmd.Flags().String("module", "", "Only entries of this module, e.g. GenerationService")
	logsCmd.Flags().Int("limit", 50, "Number of entries")
	logsCmd.Flags().Int("offset", 0, "Entries to skip")
}

// logsCmd reads the JSON log newest first. Failed refunds are logged at error
// level by GenerationService and need manual grants.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent structured log entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = config.Load().App.LogFilePath
		}
		level, _ := cmd.Flags().GetString("level")
		module, _ := cmd.Flags().GetString("module")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		entries, err := logger.ReadLogFile(path, level, module, limit, offset)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			details, _ := json.Marshal(e.Details)
			fmt.Fprintf(out, "%s %s [%s] %s %s\n", e.Timestamp, levelColor(e.Level), e.Module, e.Message, details)
		}
		return nil
	},
}

func levelColor(level string) string {
	switch level {
	case "error":
		return color.RedString("ERROR")
	case "warn":
		return color.YellowString("WARN ")
	case "debug":
		return color.CyanString("DEBUG")
	default:
		return color.GreenString("INFO ")
	}
}
