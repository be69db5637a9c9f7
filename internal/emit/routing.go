package emit

// Stream identifies one of the two output targets.
type Stream uint8

const (
	// StreamPrimary is the main translation-unit output.
	StreamPrimary Stream = iota
	// StreamSecondary is the split-out declaration-only header output.
	StreamSecondary
)

// Routing maps canonical module names to output targets. Fixed once at
// pipeline start; all three phases consult the same instance so a module's
// output never straddles streams.
type Routing struct {
	secondary map[string]bool
}

// NewRouting builds the routing table from the caller's module-to-header
// assignment (canonical names).
func NewRouting(toHeader []string) Routing {
	r := Routing{secondary: make(map[string]bool, len(toHeader))}
	for _, name := range toHeader {
		r.secondary[name] = true
	}
	return r
}

// Target returns the stream for a canonical module name.
func (r Routing) Target(name string) Stream {
	if r.secondary[name] {
		return StreamSecondary
	}
	return StreamPrimary
}

// HasSecondary reports whether any module routes to the secondary stream.
func (r Routing) HasSecondary() bool {
	return len(r.secondary) > 0
}
