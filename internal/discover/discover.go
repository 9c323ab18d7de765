// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover compares the newsletter PDFs in the assets directory
// against the campaign directories already published.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CampaignName returns the campaign name for a PDF: its file name without
// directory or extension.
func CampaignName(pdfPath string) string {
	base := filepath.Base(pdfPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsNewsletterPDF reports whether path names a PDF file by extension.
func IsNewsletterPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// NewNewsletters returns the PDFs in assetsDir that have no campaign
// directory under newslettersDir, sorted by name. A missing newslettersDir
// means nothing has been published yet.
func NewNewsletters(assetsDir, newslettersDir string) ([]string, error) {
	entries, err := os.ReadDir(assetsDir)
	if err != nil {
		return nil, fmt.Errorf("reading assets directory %s: %w", assetsDir, err)
	}

	published, err := campaigns(newslettersDir)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, e := range entries {
		if e.IsDir() || !IsNewsletterPDF(e.Name()) {
			continue
		}
		if published[CampaignName(e.Name())] {
			continue
		}
		pending = append(pending, filepath.Join(assetsDir, e.Name()))
	}
	sort.Strings(pending)
	return pending, nil
}

// CountCampaigns returns the number of campaign directories in
// newslettersDir. Plain files such as the registry database are not
// counted.
func CountCampaigns(newslettersDir string) (int, error) {
	published, err := campaigns(newslettersDir)
	if err != nil {
		return 0, err
	}
	return len(published), nil
}

func campaigns(newslettersDir string) (map[string]bool, error) {
	entries, err := os.ReadDir(newslettersDir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading newsletters directory %s: %w", newslettersDir, err)
	}

	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names[e.Name()] = true
		}
	}
	return names, nil
}
