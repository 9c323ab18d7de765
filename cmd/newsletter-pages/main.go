// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the newsletter-pages CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the newsletter-pages CLI.
var rootCmd = &cobra.Command{
	Use:   "newsletter-pages",
	Short: "Publish newsletter PDFs as static web pages",
	Long: `newsletter-pages turns a newsletter PDF into an HTML page for a static
site. It rebuilds the reading order from the PDF layout, drops the sign-off
footer, extracts the images, and splices the result into the site's page
template, front page, and archive list.

Use convert for a single PDF, check to publish every PDF in the assets
directory that has no page yet, and watch to publish PDFs as they arrive.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(viper.GetBool("verbose"))
		if used := viper.ConfigFileUsed(); used != "" {
			log.Debug().Str("file", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./newsletter-pages.yaml or ~/.config/newsletter-pages/newsletter-pages.yaml)")
	flags.BoolP("verbose", "v", false, "log debug diagnostics")
	flags.String("assets-dir", "assets/newsletters", "directory holding the newsletter PDFs")
	flags.String("newsletters-dir", "newsletters", "directory holding one folder per published campaign")
	flags.String("template", "assets/template.html", "page template with an <article> anchor")
	flags.String("index", "index.html", "front page rewritten with the latest campaign")
	flags.String("archive", "newsletterindex.html", "archive page with an <ol> campaign list")
	flags.String("layout-backend", "tabula", "layout extractor: tabula or container")
	flags.String("image-backend", "tabula", "image extractor: tabula or pdfcpu")
	flags.Int("footer-figures", 2, "trailing standalone figures that form the footer (0 keeps everything)")
	flags.Bool("dump-layout", false, "write layout.yaml next to each newsletter page")
	flags.String("registry", "newsletters/registry.db", "SQLite registry of published campaigns")

	for key, flag := range map[string]string{
		"verbose":         "verbose",
		"assets_dir":      "assets-dir",
		"newsletters_dir": "newsletters-dir",
		"template":        "template",
		"index":           "index",
		"archive":         "archive",
		"layout_backend":  "layout-backend",
		"image_backend":   "image-backend",
		"footer_figures":  "footer-figures",
		"dump_layout":     "dump-layout",
		"registry":        "registry",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("newsletter-pages")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "newsletter-pages"))
		}
	}

	viper.SetEnvPrefix("NEWSLETTER_PAGES")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Reading config file:", err)
		}
	}
}

// setupLogging installs the console logger on stderr. Warnings and above
// are shown unless verbose is set.
func setupLogging(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
