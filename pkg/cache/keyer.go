package cache

// Keyer derives cache keys. Two requests that must produce the same bytes
// map to the same key.
type Keyer interface {
	// FrameKey identifies the frames computed for a deck over a timeline.
	FrameKey(deckHash string, opts FrameKeyOpts) string
	// ArtifactKey identifies one rendered output of a frame.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts are the inputs of a frame computation besides the deck.
type FrameKeyOpts struct {
	Offsets []float64 `json:"offsets"`
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style"`
	Scale       float64 `json:"scale,omitempty"`
	Supersample int     `json:"supersample,omitempty"`
	Labels      bool    `json:"labels"`
	Background  string  `json:"background,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) FrameKey(deckHash string, opts FrameKeyOpts) string {
	return hashKey("frames", deckHash, opts)
}

func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameHash, opts)
}

// ScopedKeyer prefixes every key of an inner keyer, so that several decks
// or server instances can share one backend without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "preview:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) FrameKey(deckHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(deckHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(frameHash, opts)
}
