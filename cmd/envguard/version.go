package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/envguard"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of envguard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("envguard version %s\n", strings.TrimSpace(envguard.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
