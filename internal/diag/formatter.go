package diag

import (
	"fmt"
	"io"
)

// Formatter renders diagnostics to a writer, one per line with an
// indented location marker:
//
//	error[PARSE_EXPECTED_TOKEN]: expected '=' after let declaration
//	 --> demo.rpl:3:9
type Formatter struct {
	w io.Writer
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Format writes a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	fmt.Fprintf(f.w, "%s[%s]: %s\n", d.Severity, d.Code, d.Message)
	if d.Span.IsValid() {
		fmt.Fprintf(f.w, " --> %s\n", d.Span)
	}
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, " note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.w, " help: %s\n", d.Help)
	}
}

// FormatAll writes every diagnostic in order.
func (f *Formatter) FormatAll(diags []Diagnostic) {
	for _, d := range diags {
		f.Format(d)
	}
}
