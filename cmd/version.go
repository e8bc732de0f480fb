package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gistfs/gistfs/pkg/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the current version number of the binary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.Version)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
