// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a newsletter PDF into a published campaign page.
// One conversion reads the PDF's layout, rebuilds its reading order, drops
// the sign-off footer, renders the body to HTML, extracts the images, and
// splices the body into the site's page, index, and archive files.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/newsletter-pages/internal/discover"
	"github.com/pdiddy/newsletter-pages/internal/images"
	"github.com/pdiddy/newsletter-pages/internal/layout"
	"github.com/pdiddy/newsletter-pages/internal/pdfsource"
	"github.com/pdiddy/newsletter-pages/internal/render"
	"github.com/pdiddy/newsletter-pages/internal/template"
	"github.com/pdiddy/newsletter-pages/pkg/types"
)

const (
	// pageFile is the campaign page written inside the campaign folder.
	pageFile = "newsletter.html"
	// layoutFile is the optional reading-order dump.
	layoutFile = "layout.yaml"
)

// ErrInputNotFound is returned when the newsletter PDF does not exist.
var ErrInputNotFound = errors.New("input PDF not found")

// Recorder stores the outcome of a conversion. *registry.Store implements it.
type Recorder interface {
	Record(ctx context.Context, c types.Campaign) error
}

// Converter runs conversions with one set of backends and site files.
type Converter struct {
	Source   pdfsource.Source
	Images   images.Extractor
	Registry Recorder
	Config   types.ConversionConfig

	// Force reconverts campaigns that already have a page during a batch.
	Force bool
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of newsletters processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any newsletter failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// plan is everything a conversion writes, computed before anything is written.
type plan struct {
	campaign types.Campaign
	outDir   string
	elements []layout.Element
	images   []images.PageImages
	page     string
	index    string
	archive  string
	exists   bool
}

// Convert publishes the newsletter at pdfPath. Layout and image extraction,
// rendering and every template splice happen in memory first; a missing PDF,
// an unreadable PDF or a missing template anchor aborts before any file or
// directory is created.
func (c *Converter) Convert(ctx context.Context, pdfPath string) (types.Campaign, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Campaign{}, fmt.Errorf("%s: %w", pdfPath, ErrInputNotFound)
		}
		return types.Campaign{}, fmt.Errorf("checking input %s: %w", pdfPath, err)
	}

	p, err := c.plan(ctx, pdfPath)
	if err != nil {
		return types.Campaign{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.Campaign{}, err
	}
	if err := c.apply(ctx, pdfPath, p); err != nil {
		return types.Campaign{}, err
	}

	log.Info().
		Str("campaign", p.campaign.Name).
		Int("number", p.campaign.Number).
		Int("images", p.campaign.Images).
		Int("elements", p.campaign.Elements).
		Msg("converted newsletter")
	return p.campaign, nil
}

func (c *Converter) plan(ctx context.Context, pdfPath string) (*plan, error) {
	cfg := c.Config
	name := discover.CampaignName(pdfPath)
	outDir := filepath.Join(cfg.NewslettersDir, name)

	siteDir, err := sitePath(cfg.NewslettersDir)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.ReadFile(cfg.Template)
	if err != nil {
		return nil, err
	}
	archive, err := template.ReadFile(cfg.Archive)
	if err != nil {
		return nil, err
	}

	pages, err := c.Source.Pages(ctx, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("extracting layout with %s: %w", c.Source.Name(), err)
	}
	elems := layout.TrimFooter(layout.Sequence(pages), cfg.FooterFigures)

	fragment, err := render.New(path.Join(siteDir, name)).Render(elems)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}

	page, err := template.SplicePage(tmpl, fragment)
	if err != nil {
		return nil, err
	}
	index, err := template.SpliceIndex(tmpl, fragment)
	if err != nil {
		return nil, err
	}

	exists := dirExists(outDir)
	number, err := discover.CountCampaigns(cfg.NewslettersDir)
	if err != nil {
		return nil, err
	}
	if !exists {
		number++
	}

	// The anchor is required even when the archive already lists the
	// campaign, which happens on reconversion.
	listed, err := template.AddArchiveEntry(archive, template.ArchiveEntry(siteDir, name, number))
	if err != nil {
		return nil, err
	}
	if strings.Contains(archive, entryHref(siteDir, name)) {
		log.Debug().Str("campaign", name).Msg("archive already lists campaign")
	} else {
		archive = listed
	}

	extracted, err := c.Images.Extract(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("extracting images with %s: %w", c.Images.Name(), err)
	}

	return &plan{
		campaign: types.Campaign{
			Name:     name,
			Number:   number,
			PDFPath:  pdfPath,
			Elements: len(elems),
			Status:   types.ConversionDone,
		},
		outDir:   outDir,
		elements: elems,
		images:   extracted,
		page:     page,
		index:    index,
		archive:  archive,
		exists:   exists,
	}, nil
}

func (c *Converter) apply(ctx context.Context, pdfPath string, p *plan) error {
	if p.exists {
		log.Info().Str("dir", p.outDir).Msg("campaign directory already exists")
	}
	if err := os.MkdirAll(filepath.Join(p.outDir, images.Dir), 0o755); err != nil {
		return fmt.Errorf("creating campaign directory: %w", err)
	}

	n, err := images.Write(p.images, pdfPath, p.outDir)
	if err != nil {
		return err
	}
	p.campaign.Images = n

	if c.Config.DumpLayout {
		data, err := layout.DumpYAML(p.elements)
		if err != nil {
			return fmt.Errorf("dumping layout: %w", err)
		}
		if err := os.WriteFile(filepath.Join(p.outDir, layoutFile), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", layoutFile, err)
		}
	}

	writes := []struct {
		path, content string
	}{
		{filepath.Join(p.outDir, pageFile), p.page},
		{c.Config.Index, p.index},
		{c.Config.Archive, p.archive},
	}
	for _, w := range writes {
		if err := os.WriteFile(w.path, []byte(w.content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", w.path, err)
		}
	}

	p.campaign.ConvertedAt = time.Now().UTC()
	if c.Registry != nil {
		if err := c.Registry.Record(ctx, p.campaign); err != nil {
			return err
		}
	}
	return nil
}

// ConvertBatch converts each PDF in order, printing per-file status to w and
// returning a summary. Campaigns that already have a page are skipped unless
// Force is set. A missing template anchor stops the batch, since every
// later conversion would fail the same way.
func (c *Converter) ConvertBatch(ctx context.Context, pdfPaths []string, w io.Writer) (BatchResult, error) {
	var result BatchResult
	var fatal error
	for _, pdfPath := range pdfPaths {
		if err := ctx.Err(); err != nil {
			fatal = err
			break
		}

		name := discover.CampaignName(pdfPath)
		if !c.Force && fileExists(filepath.Join(c.Config.NewslettersDir, name, pageFile)) {
			fmt.Fprintf(w, "skipped: %s (already published)\n", name)
			result.Skipped++
			continue
		}

		if _, err := c.Convert(ctx, pdfPath); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
			if errors.Is(err, template.ErrAnchorNotFound) {
				fatal = err
				break
			}
			continue
		}
		fmt.Fprintf(w, "converted: %s\n", name)
		result.Converted++
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, fatal
}

// sitePath turns a filesystem directory into a URL path relative to the
// site root, which is the working directory. Absolute directories must lie
// inside it.
func sitePath(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving site root: %w", err)
		}
		rel, err := filepath.Rel(wd, dir)
		if err != nil {
			return "", fmt.Errorf("newsletters directory %s: %w", dir, err)
		}
		dir = rel
	}
	clean := path.Clean(filepath.ToSlash(dir))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("newsletters directory %s is outside the site root", dir)
	}
	return strings.TrimPrefix(clean, "/"), nil
}

func entryHref(newslettersDir, name string) string {
	return fmt.Sprintf("href=\"/%s/%s/%s\"", newslettersDir, name, pageFile)
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
