package render

// Options describe per-request data that renderers can use to customise their
// output without mutating the schema pipeline.
type Options struct {
	// Values pre-populates controls, keyed by field name. Renderers never
	// mutate the supplied map; sessions work on a deep copy.
	Values map[string]any
	// Errors surfaces server-side validation feedback keyed by field name, so
	// a round-tripped submission can show what the backend rejected.
	Errors map[string][]string
}

// PendingFile is a file/image value that has been captured but not yet
// uploaded. A field of kind file or image holds either a PendingFile or a
// resolved reference string; both are valid value-map entries and the engine
// never assumes one over the other.
type PendingFile struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}
