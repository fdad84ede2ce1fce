package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/envguard"
	"github.com/aretw0/envguard/internal/presentation/tui"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/aretw0/envguard/pkg/validator"
)

// ErrCheckFailed is returned when a validation fails or a comparison finds differences.
// The result has already been printed, so callers only set the exit status.
var ErrCheckFailed = errors.New("check failed")

// Output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ParseFormat accepts text, json or markdown.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or markdown)", s)
}

// CheckOptions selects the schema and output of validate and compare.
type CheckOptions struct {
	Schema     string
	SchemaFile string
	Format     string
}

func (o CheckOptions) ref() (envguard.SchemaRef, error) {
	if o.SchemaFile == "" {
		return envguard.Named(o.Schema), nil
	}
	data, err := os.ReadFile(o.SchemaFile)
	if err != nil {
		return envguard.SchemaRef{}, fmt.Errorf("failed to read schema file: %w", err)
	}
	return envguard.Inline(data), nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// RunValidate validates the file at path and prints the report.
func RunValidate(ctx context.Context, guard *envguard.Guard, path string, opts CheckOptions, out Output) error {
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	ref, err := opts.ref()
	if err != nil {
		return err
	}
	text, err := readInput(path)
	if err != nil {
		return err
	}

	report, err := guard.Validate(ctx, text, ref)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	name := guard.RefName(ref)
	switch format {
	case FormatJSON:
		err = writeJSON(out.W, report)
	case FormatMarkdown:
		err = out.markdown(tui.ReportMarkdown(name, report))
	default:
		tui.NewPrinter(out.W, out.profile()).Report(name, report)
	}
	if err != nil {
		return err
	}

	if !report.OK() {
		return ErrCheckFailed
	}
	return nil
}

// RunCompare compares the files at pathA and pathB and prints the differences.
func RunCompare(ctx context.Context, guard *envguard.Guard, pathA, pathB string, opts CheckOptions, out Output) error {
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	ref, err := opts.ref()
	if err != nil {
		return err
	}
	textA, err := readInput(pathA)
	if err != nil {
		return err
	}
	textB, err := readInput(pathB)
	if err != nil {
		return err
	}

	diff, err := guard.Compare(ctx, textA, textB, ref)
	if err != nil {
		var inputErr *envguard.InputError
		if errors.As(err, &inputErr) {
			path := pathA
			if inputErr.Input == envguard.InputB {
				path = pathB
			}
			return fmt.Errorf("%s: %w", path, inputErr.Err)
		}
		return err
	}

	name := guard.RefName(ref)
	nameA, nameB := filepath.Base(pathA), filepath.Base(pathB)
	switch format {
	case FormatJSON:
		err = writeJSON(out.W, diff)
	case FormatMarkdown:
		err = out.markdown(tui.DiffMarkdown(name, nameA, nameB, diff))
	default:
		tui.NewPrinter(out.W, out.profile()).Diff(name, nameA, nameB, diff)
	}
	if err != nil {
		return err
	}

	if !diff.Identical() {
		return ErrCheckFailed
	}
	return nil
}

// RunSchemas prints the catalog as a table, or as JSON.
func RunSchemas(ctx context.Context, guard *envguard.Guard, format string, out Output) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}
	entries, err := guard.Schemas(ctx)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		return writeJSON(out.W, entries)
	}

	tw := tabwriter.NewWriter(out.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tVARIABLES\tREQUIRED\tDESCRIPTION")
	for _, e := range entries {
		marker := ""
		if e.ID == guard.DefaultSchema() {
			marker = " (default)"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%d\t%d\t%s\n", e.ID, marker, e.Name, e.Variables, e.Required, e.Description)
	}
	return tw.Flush()
}

// RunPush decodes the schema at path and saves it under name in the writable layer.
func RunPush(ctx context.Context, stack *Stack, name, path string, out Output) error {
	if stack.Store == nil {
		return ErrReadOnly
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	if _, err := schema.Decode(name, data); err != nil {
		return err
	}
	if err := stack.Store.Save(ctx, name, data); err != nil {
		return err
	}
	out.printSystemMessage("Schema '%s' saved.", name)
	return nil
}

// RunRemove deletes name from the writable layer.
func RunRemove(ctx context.Context, stack *Stack, name string, out Output) error {
	if stack.Store == nil {
		return ErrReadOnly
	}
	if err := stack.Store.Delete(ctx, name); err != nil {
		return err
	}
	out.printSystemMessage("Schema '%s' removed.", name)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// markdown writes md, rendered with glamour when the output is a terminal.
func (o Output) markdown(md string) error {
	if o.TTY {
		rendered, err := tui.NewRenderer()(md)
		if err == nil {
			md = rendered
		}
	}
	_, err := io.WriteString(o.W, md)
	return err
}
