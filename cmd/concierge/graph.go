package main

import (
	"github.com/aretw0/concierge/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the planning flow as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the planning steps. With --session, the steps that session went through are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		return cli.PrintGraph(cmd.Context(), cfg, cmd.OutOrStdout(), sessionID)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the progress of this session (needs the redis store)")
}
