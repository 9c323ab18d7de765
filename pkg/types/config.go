package types

// LayoutBackend identifies the layout-extraction collaborator that turns a
// PDF into per-page primitives.
type LayoutBackend string

const (
	LayoutTabula    LayoutBackend = "tabula"
	LayoutContainer LayoutBackend = "container"
)

// ImageBackend identifies the embedded-image extractor.
type ImageBackend string

const (
	ImageTabula ImageBackend = "tabula"
	ImagePdfcpu ImageBackend = "pdfcpu"
)

// SiteConfig locates the static site files a conversion reads and rewrites.
type SiteConfig struct {
	// AssetsDir holds the source newsletter PDFs (e.g. "assets/newsletters").
	AssetsDir string `json:"assets_dir" yaml:"assets_dir"`

	// NewslettersDir holds one output directory per campaign (e.g. "newsletters").
	NewslettersDir string `json:"newsletters_dir" yaml:"newsletters_dir"`

	// Template is the page template spliced into each campaign's newsletter.html.
	Template string `json:"template" yaml:"template"`

	// Index is the site front page that always shows the latest campaign.
	Index string `json:"index" yaml:"index"`

	// Archive is the page listing every campaign.
	Archive string `json:"archive" yaml:"archive"`
}

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	SiteConfig `yaml:",inline"`

	// LayoutBackend selects the layout extractor: tabula or container.
	LayoutBackend LayoutBackend `json:"layout_backend" yaml:"layout_backend"`

	// ImageBackend selects the image extractor: tabula or pdfcpu.
	ImageBackend ImageBackend `json:"image_backend" yaml:"image_backend"`

	// FooterFigures is the number of trailing standalone figures that mark
	// the sign-off footer (default 2). Values below 1 disable trimming.
	FooterFigures int `json:"footer_figures" yaml:"footer_figures"`

	// DumpLayout writes layout.yaml next to newsletter.html when set.
	DumpLayout bool `json:"dump_layout" yaml:"dump_layout"`
}

// RegistryConfig holds settings for the publication registry.
type RegistryConfig struct {
	// Path is the SQLite database file (e.g. "newsletters/registry.db").
	Path string `json:"registry" yaml:"registry"`
}
