package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/mccdl/internal/shared"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the MultiMC instances and the modpacks installed in them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		summaries, err := newApp().ListInstances()
		if err != nil {
			shared.ExitErr(logger, err)
		}

		for _, s := range summaries {
			if viper.GetBool("list.managed") && s.Receipt == nil {
				continue
			}
			fmt.Println(s)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("managed", "m", false, "Only list instances installed by mccdl")
	_ = viper.BindPFlag("list.managed", listCmd.Flags().Lookup("managed"))
}
