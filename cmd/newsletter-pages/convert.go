// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [pdf...]",
	Short: "Publish newsletter PDFs as campaign pages",
	Long: `Convert publishes each PDF as <newsletters-dir>/<name>/newsletter.html,
where name is the PDF file name without extension. Images go to the
campaign's img/ folder, the front page shows the new campaign, and the
archive list gains an entry.

A missing PDF or a template without its anchor aborts before any file
is written. Existing campaigns are converted again.`,
	Example: `  newsletter-pages convert -p assets/newsletters/2024-05.pdf
  newsletter-pages convert assets/newsletters/2024-05.pdf assets/newsletters/2024-06.pdf`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	paths := args
	if p, _ := cmd.Flags().GetString("path"); p != "" {
		paths = append([]string{p}, paths...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF given: pass --path or one or more PDF paths")
	}

	conv, store, err := newConverter(true)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if len(paths) == 1 {
		campaign, err := conv.Convert(ctx, paths[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "converted: %s (newsletter %d, %d images)\n", campaign.Name, campaign.Number, campaign.Images)
		return nil
	}

	result, err := conv.ConvertBatch(ctx, paths, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d newsletter(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	convertCmd.Flags().StringP("path", "p", "", "path to the newsletter PDF")

	rootCmd.AddCommand(convertCmd)
}
