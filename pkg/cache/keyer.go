package cache

// Keyer builds cache keys. Implementations must be deterministic: equal
// inputs give equal keys across processes.
type Keyer interface {
	// DatasetKey identifies an imported dataset by source path and a
	// fingerprint of the file contents.
	DatasetKey(source, contentHash string) string
	// GeometryKey identifies a computed snapshot.
	GeometryKey(inputHash string, opts GeometryKeyOpts) string
	// SceneKey identifies rendered output for a snapshot.
	SceneKey(geometryHash string, opts SceneKeyOpts) string
}

// GeometryKeyOpts are the layout inputs not already folded into the input
// hash.
type GeometryKeyOpts struct {
	Chart      string  `json:"chart"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Scroll     bool    `json:"scroll,omitempty"`
	ItemExtent float64 `json:"item_extent,omitempty"`
	Overscan   int     `json:"overscan,omitempty"`
	Offset     float64 `json:"offset,omitempty"`
}

// SceneKeyOpts describe one rendered artifact.
type SceneKeyOpts struct {
	Format   string  `json:"format"`
	Scroll   bool    `json:"scroll,omitempty"`
	Frames   int     `json:"frames,omitempty"`
	Fraction float64 `json:"fraction,omitempty"`
	Labels   bool    `json:"labels,omitempty"`
	Palette  string  `json:"palette,omitempty"`
}

// DefaultKeyer is the Keyer used by the CLI and server.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DatasetKey(source, contentHash string) string {
	return hashKey("dataset", source, contentHash)
}

func (DefaultKeyer) GeometryKey(inputHash string, opts GeometryKeyOpts) string {
	return hashKey("geometry", inputHash, opts)
}

func (DefaultKeyer) SceneKey(geometryHash string, opts SceneKeyOpts) string {
	return hashKey("scene", geometryHash, opts)
}

var _ Keyer = DefaultKeyer{}
