package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"go/format"

	"github.com/awsl-dbq/sqlflow/internal/catalog"
)

// ErrBacktickInJSON is returned when a report cannot be embedded in a raw
// string literal.
var ErrBacktickInJSON = errors.New("report JSON contains a backtick")

// Render produces the generated Go source holding one string constant per
// report.
func Render(cat *catalog.Catalog, reports []Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by %s. DO NOT EDIT.\n\n", cat.Generator)
	fmt.Fprintf(&buf, "package %s\n", cat.Package)

	for _, r := range reports {
		js, err := encodeJSON(r)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "\nconst %s = `\n", r.Const)
		buf.Write(js)
		buf.WriteString("`\n")
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return formatted, nil
}

// encodeJSON writes the report with four-space indentation and a trailing
// newline, leaving <, > and & unescaped.
func encodeJSON(r Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r.Docs); err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.Const, err)
	}
	if bytes.IndexByte(buf.Bytes(), '`') >= 0 {
		return nil, fmt.Errorf("%s: %w", r.Const, ErrBacktickInJSON)
	}
	return buf.Bytes(), nil
}
