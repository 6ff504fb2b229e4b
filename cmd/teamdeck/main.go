package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "teamdeck",
	Short: "Teamdeck internal team management service",
	Long:  "Teamdeck is the backend for an internal team dashboard: account registration with admin approval, session authentication, a kanban task board, a service package catalog, notifications and an activity feed.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/teamdeck.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
