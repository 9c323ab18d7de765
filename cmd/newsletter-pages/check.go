// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsletter-pages/internal/discover"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Publish every newsletter PDF that has no page yet",
	Long: `Check lists the PDFs in the assets directory, keeps those without a
campaign folder in the newsletters directory, and converts them in name
order. Use --dry-run to only list them.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	pending, err := discover.NewNewsletters(viper.GetString("assets_dir"), viper.GetString("newsletters_dir"))
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No new newsletters.")
		return nil
	}
	if dryRun {
		for _, p := range pending {
			fmt.Println(p)
		}
		return nil
	}

	conv, store, err := newConverter(false)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, p := range pending {
		log.Info().Str("pdf", p).Msg("creating page for newsletter")
	}
	result, err := conv.ConvertBatch(context.Background(), pending, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d newsletter(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	checkCmd.Flags().Bool("dry-run", false, "list new newsletters without converting them")

	rootCmd.AddCommand(checkCmd)
}
