// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsletter-pages/internal/registry"
	"github.com/pdiddy/newsletter-pages/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List published campaigns from the registry",
	Long: `List prints every campaign recorded in the registry, newest first.
Use --export to write the registry to registry.yaml (or registry.json with
--format json) next to the database.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	export, _ := cmd.Flags().GetBool("export")
	format, _ := cmd.Flags().GetString("format")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := registry.NewStore(registryConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if export {
		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(ctx)
		case "json":
			path, err = store.ExportJSON(ctx)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	}

	campaigns, err := store.List(ctx)
	if err != nil {
		return err
	}
	return formatListOutput(campaigns, jsonOutput)
}

func formatListOutput(campaigns []types.Campaign, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(campaigns)
	}

	if len(campaigns) == 0 {
		fmt.Println("No campaigns published.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-6s  %-8s  %-10s  %s\n",
		"No.", "Campaign", "Images", "Elements", "Status", "Converted")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))

	for _, c := range campaigns {
		name := c.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-6d  %-8d  %-10s  %s\n",
			c.Number, name, c.Images, c.Elements, c.Status, c.ConvertedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(os.Stdout, "\n%d campaigns\n", len(campaigns))
	return nil
}

func init() {
	listCmd.Flags().Bool("export", false, "write the registry to a file instead of printing it")
	listCmd.Flags().String("format", "yaml", "export format: yaml or json")
	listCmd.Flags().Bool("json", false, "print JSON instead of a table")

	rootCmd.AddCommand(listCmd)
}
