// Package diag defines the diagnostic model shared by the translation
// pipeline.
//
// Two kinds of findings flow through it: diagnostics forwarded verbatim from
// the external type-checking front end, and the translator's own
// configuration findings. Structural invariant violations (unresolved base
// class, unpooled literal) are NOT diagnostics — those are fatal errors that
// abort the run and surface as a single error value from pipeline.Run.
//
// Diagnostic is the central record: Severity (Info/Warning/Error), a compact
// numeric Code with stable string form, the originating module name, and a
// short message. Producers emit through a Reporter; BagReporter aggregates
// into a Bag, which supports sorting and deduplication so output stays
// deterministic run to run.
//
// The package performs no formatting or IO; rendering lives with the CLI.
package diag
