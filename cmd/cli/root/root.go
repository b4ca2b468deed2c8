package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the top-level CLI command.
var RootCmd = &cobra.Command{
	Use:   "cttn",
	Short: "NotesApp CLI",
	Long:  "Command line client for the NotesApp API",
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
