package cache

// Keyer builds cache keys.
type Keyer interface {
	// GenerationKey identifies a generative-service response.
	GenerationKey(opts GenerationKeyOpts) string

	// RenderKey identifies a rendered artifact of a diagram.
	RenderKey(diagramHash string, opts RenderKeyOpts) string
}

// GenerationKeyOpts are the inputs that determine a generated response.
type GenerationKeyOpts struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Mode     string `json:"mode"`
	Prompt   string `json:"prompt"`
	Context  string `json:"context"`
}

// RenderKeyOpts are the inputs that determine a rendered artifact.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Engine string `json:"engine,omitempty"`
}

// DefaultKeyer hashes key inputs under fixed prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GenerationKey returns "gen:<sha256>".
func (DefaultKeyer) GenerationKey(opts GenerationKeyOpts) string {
	return hashKey("gen", opts)
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(diagramHash string, opts RenderKeyOpts) string {
	return hashKey("render", diagramHash, opts)
}
