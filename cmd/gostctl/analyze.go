package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lk2023060901/gost-search/internal/client"
	wstypes "github.com/lk2023060901/gost-search/internal/websearch/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Stream the analysis of one document",
	Long: `Analyze fetches the document at --url through the backend and streams the
GigaChat summary. When the page cannot be read the backend searches for
another copy using --query, or --title when no query is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		title, _ := cmd.Flags().GetString("title")
		query, _ := cmd.Flags().GetString("query")
		message, _ := cmd.Flags().GetString("message")

		return runAnalysis(cmd, &wstypes.SearchResult{Title: title, URL: url}, query, message)
	},
}

func init() {
	analyzeCmd.Flags().String("url", "", "document URL")
	analyzeCmd.Flags().String("title", "", "document title")
	analyzeCmd.Flags().String("query", "", "original search query")
	analyzeCmd.Flags().String("message", "", "analysis instruction (default summary of requirements)")
	_ = analyzeCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalysis(cmd *cobra.Command, result *wstypes.SearchResult, query, message string) error {
	start := time.Now()
	p := newPrinter(cmd.OutOrStdout())

	view := analyzer.Analyze(cmd.Context(), result, query, message, p.observe)
	p.finish()

	if view.State == client.StateError {
		if view.DocumentStatus != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Статус: %s\n", view.DocumentStatus)
		}
		return errors.New(view.Error)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "done in %s\n", elapsed(start))
	return nil
}
