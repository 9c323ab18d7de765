// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsletter-pages/internal/discover"
	"github.com/pdiddy/newsletter-pages/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Publish newsletter PDFs as they are added",
	Long: `Watch publishes any PDFs in the assets directory that have no page yet,
then waits for new PDFs and publishes each one once it has stopped
changing. Stop it with Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	settle, _ := cmd.Flags().GetDuration("settle")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conv, store, err := newConverter(false)
	if err != nil {
		return err
	}
	defer store.Close()

	assetsDir := viper.GetString("assets_dir")
	pending, err := discover.NewNewsletters(assetsDir, viper.GetString("newsletters_dir"))
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		if _, err := conv.ConvertBatch(ctx, pending, os.Stdout); err != nil {
			return err
		}
	}

	w := watch.New(assetsDir, settle, func(ctx context.Context, pdfPath string) error {
		campaign, err := conv.Convert(ctx, pdfPath)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", discover.CampaignName(pdfPath), err)
			return err
		}
		fmt.Fprintf(os.Stdout, "converted: %s (newsletter %d)\n", campaign.Name, campaign.Number)
		return nil
	})
	return w.Run(ctx)
}

func init() {
	watchCmd.Flags().Duration("settle", 2*time.Second, "quiet period before a new PDF is converted")

	rootCmd.AddCommand(watchCmd)
}
