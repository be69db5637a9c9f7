package cpp

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeIdent turns an arbitrary source identifier into a valid C++
// identifier, deterministically. Non-ASCII letters are NFKD-folded and
// combining marks dropped, anything else outside [A-Za-z0-9_] becomes '_'.
func SanitizeIdent(name string) string {
	folded := norm.NFKD.String(name)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		case r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "_" + out
	}
	return out
}

// Namespace returns the C++ namespace for a canonical module name: the final
// name-path segment, sanitized. "core.vm" translates into namespace vm.
func Namespace(canonical string) string {
	seg := canonical
	if i := strings.LastIndexByte(canonical, '.'); i >= 0 {
		seg = canonical[i+1:]
	}
	return SanitizeIdent(seg)
}

// GuardMacro derives the include-guard macro from a header file name:
// "osh_eval.h" becomes "OSH_EVAL_H".
func GuardMacro(headerName string) string {
	base := headerName
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(unicode.ToUpper(r))
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return SanitizeIdent(b.String())
}
