package cmd

import (
	"context"
	"log"

	"github.com/josephlewis42/smallsh/core"
	"github.com/josephlewis42/smallsh/core/config"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/mode"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	noColor bool
)

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if noColor {
		configuration.Color = config.ColorNever
	}
	return configuration, nil
}

// rootCmd runs the interactive shell when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "smallsh",
	Short: "A small interactive shell",
	Long: `smallsh reads commands from standard input and runs them.

It supports the builtins cd, exit and status, input and output redirection
with < and >, background jobs with a trailing &, and expands a trailing $$
in any argument to its own process ID. Sending SIGTSTP (Ctrl-Z) toggles
foreground-only mode, where & is ignored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		events := logger.Discard()
		if configuration.EventLog {
			fd, err := configuration.OpenAppLog()
			if err != nil {
				return err
			}
			defer fd.Close()
			events = logger.NewJsonLinesLogRecorder(fd)
		}
		session := events.NewSession()
		if configuration.EventLog {
			log.New(cmd.ErrOrStderr(), "", 0).Printf("recording events as session %s", session.SessionID())
		}

		mode.IgnoreInterrupt()
		modeState := &mode.State{}

		sh, err := core.NewShell(configuration, core.StdIO(), modeState, session)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		mode.Watch(ctx, modeState, sh.Out)

		if err := sh.Run(); err != nil {
			log.New(cmd.ErrOrStderr(), "", 0).Printf("session ended: %v", err)
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "never color diagnostics")
}
