package chunk

// Chunk is one heading-or-size-bounded slice of a document's body, per
// spec §3/§4.C.
type Chunk struct {
	// Heading is the section heading text, or "" if this chunk carries none
	// (either a headless leading section, or a continuation sub-chunk).
	Heading string
	// HeadingLevel is 1 or 2, or 0 if Heading is empty.
	HeadingLevel int
	// Body is the chunk's text content.
	Body string
	// Order is this chunk's zero-based position within its document.
	Order int
	// Offset is the character offset of this chunk's content into the
	// unstripped document body.
	Offset int
	// PriorityHeading is true iff Heading (after normalizing) is one of
	// the fixed priority heading texts.
	PriorityHeading bool
}

// MaxChunkChars is the upper char budget for a single chunk (spec §4.C).
const MaxChunkChars = 6000

var priorityHeadings = map[string]bool{
	"current status": true,
	"next":           true,
	"next steps":     true,
	"blockers":       true,
	"blocked by":     true,
	"decisions":      true,
}
