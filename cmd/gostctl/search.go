package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search regulatory documents",
	Long: `Search sends the query to the edge, which narrows it to GOST, OST, RD and SP
documents. With --analyze the first result is analyzed right away.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		asJSON, _ := cmd.Flags().GetBool("json")
		analyze, _ := cmd.Flags().GetBool("analyze")

		results, err := analyzer.Search(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return err
			}
		} else {
			for i, r := range results {
				fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
			}
		}

		if !analyze {
			return nil
		}
		if len(results) == 0 {
			return errors.New("no documents found")
		}
		fmt.Fprintln(out)
		message, _ := cmd.Flags().GetString("message")
		return runAnalysis(cmd, results[0], query, message)
	},
}

func init() {
	searchCmd.Flags().Bool("json", false, "print results as JSON")
	searchCmd.Flags().Bool("analyze", false, "analyze the first result")
	searchCmd.Flags().String("message", "", "analysis instruction (default summary of requirements)")

	rootCmd.AddCommand(searchCmd)
}
