package cmd

import (
	"fmt"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/leocov-dev/mccdl/internal/shared"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:     "open <modpack-url|project>",
	Short:   "Open the CurseForge page of a modpack in your browser",
	Aliases: []string{"doc"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		url, err := newApp().ProjectPageURL(args[0])
		if err != nil {
			shared.ExitErr(logger, err)
		}
		logger.Info("opening browser", "url", url)
		if err := open.Start(url); err != nil {
			fmt.Println("Opening page failed, direct link:")
			fmt.Println(url)
		}
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
