package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/josephlewis42/smallsh/core/config"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var (
	reportSession string
	reportJSON    bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the shell event log.",
	Long: `Explore the shell event log.

Events are only recorded when event_log is enabled in the configuration.`,
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Summarize the commands, launches and exits in the event log.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		report, err := buildReport(configuration, reportSession)
		if err != nil {
			return err
		}

		return writeReport(cmd.OutOrStdout(), report, reportJSON)
	},
}

// buildReport reads the application log, optionally keeping only the entries
// of a single session.
func buildReport(configuration *config.Configuration, sessionID string) (*logger.Report, error) {
	fd, err := configuration.ReadAppLog()
	if err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}
	defer fd.Close()

	var report logger.Report
	err = logger.ReadJSONLinesLog(fd, func(le *logger.LogEntry) {
		if sessionID != "" && le.SessionID != sessionID {
			return
		}
		report.Update(le)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func writeReport(w io.Writer, report *logger.Report, asJSON bool) error {
	var (
		out []byte
		err error
	)
	if asJSON {
		out, err = json.MarshalIndent(report, "", "  ")
	} else {
		out, err = yaml.Marshal(report)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(w, string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)

	reportCommand.Flags().StringVar(&reportSession, "session", "", "only include events from this session ID")
	reportCommand.Flags().BoolVar(&reportJSON, "json", false, "print the report as JSON instead of YAML")
}
