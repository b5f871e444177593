package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// serverURL is the base address of the research hub service.
var serverURL string

var rootCmd = &cobra.Command{
	Use:   "research-cli",
	Short: "A CLI client to interact with the research hub service",
	Long:  `A command-line interface for uploading research documents, browsing their AI analysis, and managing notes, tags and cross-document links.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI: %s", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the research hub service")
}
