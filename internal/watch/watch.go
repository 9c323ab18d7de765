// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch reports newsletter PDFs dropped into the assets directory.
package watch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/newsletter-pages/internal/discover"
)

// DefaultSettle is how long a PDF must go without further writes before it
// is handed over.
const DefaultSettle = 2 * time.Second

// Handler is called once per settled PDF. Errors are logged and watching
// continues.
type Handler func(ctx context.Context, pdfPath string) error

// Watcher watches one directory for new PDFs.
type Watcher struct {
	dir     string
	settle  time.Duration
	handler Handler
}

// New returns a Watcher over dir. A settle of zero uses DefaultSettle.
func New(dir string, settle time.Duration, handler Handler) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{dir: dir, settle: settle, handler: handler}
}

// Run blocks until ctx is cancelled. Handlers run one at a time on the
// calling goroutine, in file name order when several PDFs settle together.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	log.Info().Str("dir", w.dir).Msg("watching for newsletters")

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !discover.IsNewsletterPDF(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Str("dir", w.dir).Msg("file watcher error")

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.settle) {
				delete(pending, path)
				if err := w.handler(ctx, path); err != nil {
					log.Error().Err(err).Str("pdf", path).Msg("handling newsletter failed")
				}
			}
		}
	}
}

// settled returns the pending paths untouched for at least settle, sorted.
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var ready []string
	for path, last := range pending {
		if now.Sub(last) >= settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	return ready
}
