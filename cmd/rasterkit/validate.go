package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a scene document without rendering it",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d output(s) valid\n", configPath, len(doc.Outputs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to scene document (.yaml or .hcl)")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}
