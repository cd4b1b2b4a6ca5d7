package cmd

import (
	"os"

	"github.com/josephlewis42/smallsh/core"
	"github.com/josephlewis42/smallsh/core/spawn"
	"github.com/spf13/cobra"
)

// spawnCmd is re-executed by the shell for every external command. It applies
// redirections in the new process and then replaces itself with the program.
var spawnCmd = &cobra.Command{
	Use:                core.SpawnCommand + " [flags] -- command [args...]",
	Short:              "Prepare and exec a child process.",
	Hidden:             true,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(spawn.Main(append([]string{core.SpawnCommand}, args...), os.Stderr))
	},
}

func init() {
	rootCmd.AddCommand(spawnCmd)
}
