package cmd

import (
	"github.com/spf13/cobra"

	"archviz/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize archviz configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure archviz for your project and generates a .archviz.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
