// Package main provides the entry point for the governance dashboard server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "govgate",
	Short: "Compliance governance dashboard",
	Long:  "Govgate manages governance rules, generates compliance code and tests from them via an LLM, simulates deployment pipelines with a compliance gate, and keeps an append-only audit trail.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
