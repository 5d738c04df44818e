package main

import (
	"os"

	"github.com/spf13/cobra"
)

var recentClear bool

func init() {
	cmd := newRecentCmd()
	cmd.Flags().BoolVar(&recentClear, "clear", false, "Forget all recent hives")
	rootCmd.AddCommand(cmd)
}

func newRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently opened hives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecent()
		},
	}
}

func runRecent() error {
	if recentClear {
		cfg.Recent = nil
		if err := saveConfig(); err != nil {
			return err
		}
		printInfo("Recent list cleared.\n")
		return nil
	}
	if len(cfg.Recent) == 0 {
		printInfo("No recent hives.\n")
		return nil
	}
	printInfo("Recent hives:\n")
	for i, p := range cfg.Recent {
		marker := ""
		if _, err := os.Stat(p); err != nil {
			marker = "  (missing)"
		}
		printInfo("  %d. %s%s\n", i+1, p, marker)
	}
	return nil
}
