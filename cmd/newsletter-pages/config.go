// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/newsletter-pages/internal/convert"
	"github.com/pdiddy/newsletter-pages/internal/images"
	"github.com/pdiddy/newsletter-pages/internal/pdfsource"
	"github.com/pdiddy/newsletter-pages/internal/registry"
	"github.com/pdiddy/newsletter-pages/pkg/types"
)

// conversionConfig reads the conversion settings from flags, environment
// and config file.
func conversionConfig() types.ConversionConfig {
	return types.ConversionConfig{
		SiteConfig: types.SiteConfig{
			AssetsDir:      viper.GetString("assets_dir"),
			NewslettersDir: viper.GetString("newsletters_dir"),
			Template:       viper.GetString("template"),
			Index:          viper.GetString("index"),
			Archive:        viper.GetString("archive"),
		},
		LayoutBackend: types.LayoutBackend(viper.GetString("layout_backend")),
		ImageBackend:  types.ImageBackend(viper.GetString("image_backend")),
		FooterFigures: viper.GetInt("footer_figures"),
		DumpLayout:    viper.GetBool("dump_layout"),
	}
}

func registryConfig() types.RegistryConfig {
	return types.RegistryConfig{Path: viper.GetString("registry")}
}

// newConverter wires the configured backends and the registry. The caller
// closes the returned store.
func newConverter(force bool) (*convert.Converter, *registry.Store, error) {
	cfg := conversionConfig()

	src, err := pdfsource.New(cfg.LayoutBackend)
	if err != nil {
		return nil, nil, err
	}
	ex, err := images.New(cfg.ImageBackend)
	if err != nil {
		return nil, nil, err
	}
	store, err := registry.NewStore(registryConfig())
	if err != nil {
		return nil, nil, err
	}

	return &convert.Converter{
		Source:   src,
		Images:   ex,
		Registry: store,
		Config:   cfg,
		Force:    force,
	}, store, nil
}
