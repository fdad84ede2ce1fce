package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/envguard/pkg/validator"
	"github.com/muesli/termenv"
)

const (
	colorOK   = "#10b981"
	colorFail = "#ef4444"
	colorWarn = "#f59e0b"
	colorInfo = "#818cf8"
)

// Printer writes reports as colored plain text.
type Printer struct {
	w       io.Writer
	profile termenv.Profile
}

// NewPrinter returns a Printer for w. Use termenv.Ascii to disable colors.
func NewPrinter(w io.Writer, profile termenv.Profile) *Printer {
	return &Printer{w: w, profile: profile}
}

func (p *Printer) paint(color, s string) termenv.Style {
	return p.profile.String(s).Foreground(p.profile.Color(color))
}

func (p *Printer) section(mark, color, title string, items []string) {
	fmt.Fprintf(p.w, "%s %s (%d)\n", p.paint(color, mark), title, len(items))
	for _, item := range items {
		fmt.Fprintf(p.w, "  - %s\n", item)
	}
}

// Report writes a validation report.
func (p *Printer) Report(schemaName string, r *validator.Report) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint(colorInfo, "Schema:"), schemaName)

	p.section("✗", colorFail, "Missing", r.Missing)

	invalid := make([]string, len(r.Invalid))
	for i, issue := range r.Invalid {
		invalid[i] = issue.Key + ": " + issue.Reason
	}
	p.section("✗", colorFail, "Invalid", invalid)
	p.section("!", colorWarn, "Extra", r.Extra)
	p.section("✓", colorOK, "Validated", validatedLines(r))

	if r.OK() {
		fmt.Fprintf(p.w, "Result: %s\n", p.paint(colorOK, "PASSED"))
	} else {
		fmt.Fprintf(p.w, "Result: %s\n", p.paint(colorFail, "FAILED"))
	}
}

// Diff writes a comparison of two environments.
func (p *Printer) Diff(schemaName, nameA, nameB string, d *validator.DiffReport) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint(colorInfo, "Schema:"), schemaName)

	p.section("<", colorWarn, "Only in "+nameA, d.OnlyInA)
	p.section(">", colorWarn, "Only in "+nameB, d.OnlyInB)
	p.section("≠", colorFail, "Different values", differenceLines(d))

	if d.Identical() {
		fmt.Fprintf(p.w, "Result: %s\n", p.paint(colorOK, "IDENTICAL"))
	} else {
		fmt.Fprintf(p.w, "Result: %s\n", p.paint(colorFail, "DIFFERENT"))
	}
}

func validatedLines(r *validator.Report) []string {
	keys := r.Validated.Keys()
	lines := make([]string, len(keys))
	for i, k := range keys {
		v, _ := r.Validated.Get(k)
		lines[i] = fmt.Sprintf("%s = %v", k, v)
	}
	return lines
}

func differenceLines(d *validator.DiffReport) []string {
	lines := make([]string, len(d.DifferentValues))
	for i, k := range d.DifferentValues {
		a, _ := d.Validation.A.Validated.Get(k)
		b, _ := d.Validation.B.Validated.Get(k)
		lines[i] = fmt.Sprintf("%s: %v → %v", k, a, b)
	}
	return lines
}

// ReportMarkdown renders a validation report as markdown, for NewRenderer.
func ReportMarkdown(schemaName string, r *validator.Report) string {
	var b strings.Builder
	status := "✅ Passed"
	if !r.OK() {
		status = "❌ Failed"
	}
	fmt.Fprintf(&b, "# Validation: %s\n\n**%s**\n\n", schemaName, status)

	mdList(&b, "Missing", codeItems(r.Missing))
	invalid := make([]string, len(r.Invalid))
	for i, issue := range r.Invalid {
		invalid[i] = fmt.Sprintf("`%s`: %s", issue.Key, issue.Reason)
	}
	mdList(&b, "Invalid", invalid)
	mdList(&b, "Extra", codeItems(r.Extra))

	keys := r.Validated.Keys()
	validated := make([]string, len(keys))
	for i, k := range keys {
		v, _ := r.Validated.Get(k)
		validated[i] = fmt.Sprintf("`%s` = `%v`", k, v)
	}
	mdList(&b, "Validated", validated)
	return b.String()
}

// DiffMarkdown renders a comparison as markdown, for NewRenderer.
func DiffMarkdown(schemaName, nameA, nameB string, d *validator.DiffReport) string {
	var b strings.Builder
	status := "✅ Identical"
	if !d.Identical() {
		status = "❌ Different"
	}
	fmt.Fprintf(&b, "# Comparison: %s\n\n**%s**\n\n", schemaName, status)

	mdList(&b, "Only in "+nameA, codeItems(d.OnlyInA))
	mdList(&b, "Only in "+nameB, codeItems(d.OnlyInB))

	diffs := make([]string, len(d.DifferentValues))
	for i, k := range d.DifferentValues {
		a, _ := d.Validation.A.Validated.Get(k)
		b, _ := d.Validation.B.Validated.Get(k)
		diffs[i] = fmt.Sprintf("`%s`: `%v` → `%v`", k, a, b)
	}
	mdList(&b, "Different values", diffs)
	return b.String()
}

func codeItems(keys []string) []string {
	items := make([]string, len(keys))
	for i, k := range keys {
		items[i] = "`" + k + "`"
	}
	return items
}

func mdList(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "## %s (%d)\n\n", title, len(items))
	if len(items) == 0 {
		b.WriteString("_none_\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
