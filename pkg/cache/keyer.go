package cache

import "slices"

// Keyer derives cache keys for the stages of the pipeline.
type Keyer interface {
	// LayoutKey identifies the coordinates computed for a molecule.
	LayoutKey(molHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendering of a cached layout.
	ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout settings that change the coordinates.
type LayoutKeyOpts struct {
	Mode   string `json:"mode"`
	Seed   uint64 `json:"seed"`
	Marked []int  `json:"marked,omitempty"`
}

// ArtifactKeyOpts are the render settings that change the output bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Scale       float64 `json:"scale,omitempty"`
	AtomNumbers bool    `json:"atom_numbers,omitempty"`
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>". Marked atoms are sorted first so that
// their order on the command line does not matter.
func (DefaultKeyer) LayoutKey(molHash string, opts LayoutKeyOpts) string {
	marked := slices.Clone(opts.Marked)
	slices.Sort(marked)
	opts.Marked = slices.Compact(marked)
	return hashKey("layout", molHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutKey, opts)
}

var _ Keyer = DefaultKeyer{}
