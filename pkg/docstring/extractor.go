package docstring

import (
	"regexp"
	"slices"
	"strings"
)

// Params maps a parameter name to its normalised description.
type Params map[string]string

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// kwargsTrailer matches documentation of variadic parameters such as
// "**kwargs:" or the escaped "\*\*kwargs:" that starts a new line.
var kwargsTrailer = regexp.MustCompile(`(?s)\n\s*[\\*]+kwargs\s*:.*`)

// Extract returns the documentation of every formal parameter of c that is
// introduced by prefix in its docstring. Parameters that are not documented
// are absent from the result. A callable without documentation yields an
// empty result.
func Extract(c Callable, prefix string) Params {
	return Split(resolveDoc(c), c.Parameters(), prefix)
}

// Split parses doc for the given parameter names. Each parameter block
// starts at a line beginning with optional whitespace, prefix, the name and
// a colon, and runs to the next block or the end of doc.
func Split(doc string, params []string, prefix string) Params {
	out := Params{}
	re := markerPattern(params, prefix)
	if re == nil || doc == "" {
		return out
	}

	locs := re.FindAllStringSubmatchIndex(doc, -1)
	for i, loc := range locs {
		end := len(doc)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		desc := doc[loc[1]:end]
		if i == len(locs)-1 {
			desc = trimKwargs(desc)
		}
		out[doc[loc[2]:loc[3]]] = Normalize(desc)
	}
	return out
}

// Normalize collapses whitespace runs into single spaces, trims the ends
// and replaces backticks with single quotes.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.Join(strings.Fields(s), " "), "`", "'")
}

func trimKwargs(s string) string {
	if loc := kwargsTrailer.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}

// markerPattern builds the block-start pattern. Names are quoted and tried
// longest first so that "n" never shadows "n_classes". It returns nil when
// there is nothing to match.
func markerPattern(params []string, prefix string) *regexp.Regexp {
	names := make([]string, 0, len(params))
	for _, p := range params {
		if p != "" {
			names = append(names, regexp.QuoteMeta(p))
		}
	}
	if len(names) == 0 {
		return nil
	}
	slices.SortStableFunc(names, func(a, b string) int { return len(b) - len(a) })

	return regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(prefix) +
		`\s*(` + strings.Join(names, "|") + `)\s*:\s*`)
}
