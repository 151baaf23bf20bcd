// Package main is the command line client for the GOST search edge.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	analysistypes "github.com/lk2023060901/gost-search/internal/analysis/types"
	"github.com/lk2023060901/gost-search/internal/client"
	"github.com/lk2023060901/gost-search/internal/conf"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
)

// analyzer is built once the persistent flags are parsed
var analyzer *client.Analyzer

var rootCmd = &cobra.Command{
	Use:   "gostctl",
	Short: "Search GOST documents and stream their GigaChat analysis",
	Long: `gostctl talks to the edge proxy. search finds regulatory documents,
analyze streams a GigaChat summary of one document with its current status.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		config, err := conf.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		log, err := logger.CLI(verbose)
		if err != nil {
			return err
		}

		edgeURL := config.Client.EdgeURL
		if cmd.Flags().Changed("edge-url") {
			edgeURL, _ = cmd.Flags().GetString("edge-url")
		}
		timeout := config.Client.Timeout
		if cmd.Flags().Changed("timeout") {
			timeout, _ = cmd.Flags().GetDuration("timeout")
		}

		vocab, err := analysistypes.ParseVocabulary(config.GigaChat.StatusVocabulary)
		if err != nil {
			return err
		}
		analyzer = client.NewAnalyzer(edgeURL, timeout, vocab, log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().String("edge-url", "", "edge proxy base URL (default from client.edge_url)")
	rootCmd.PersistentFlags().Duration("timeout", client.DefaultTimeout, "deadline for one search or analysis")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// elapsed formats a duration for the summary line
func elapsed(start time.Time) string {
	return fmt.Sprintf("%.1fs", time.Since(start).Seconds())
}
