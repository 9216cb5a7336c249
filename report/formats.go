package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format specifies the report serialization.
type Format string

const (
	// FormatText is the fixed-width table of the original converter.
	FormatText Format = "text"

	// FormatMarkdown is a markdown document with a summary and a table.
	FormatMarkdown Format = "markdown"

	// FormatHTML is the markdown report rendered to HTML.
	FormatHTML Format = "html"
)

// FormatInfo provides metadata about a report format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatText:     {Name: FormatText, MIMEType: "text/plain", Extension: ".txt"},
	FormatMarkdown: {Name: FormatMarkdown, MIMEType: "text/markdown", Extension: ".md"},
	FormatHTML:     {Name: FormatHTML, MIMEType: "text/html", Extension: ".html"},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Write writes r to w in the given format.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText:
		return WriteText(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	case FormatHTML:
		return WriteHTML(w, r)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

const columnWidth = 30

// WriteText writes the fixed-width table: file name, status, error type.
func WriteText(w io.Writer, r *Report) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "FileName%*s%*s\n", columnWidth, "Status", columnWidth, "ErrorType")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	for _, e := range r.Entries {
		fmt.Fprintf(&sb, "%s%*s%*s\n", filepath.Base(e.File), columnWidth, e.Status, columnWidth, e.ErrorKind)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteMarkdown writes a summary followed by one table row per file.
func WriteMarkdown(w io.Writer, r *Report) error {
	var sb strings.Builder
	sb.WriteString("# Conversion report\n\n")
	fmt.Fprintf(&sb, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&sb, "- Started: %s\n", r.Started.Format("2006-01-02 15:04:05"))
	if !r.Finished.IsZero() {
		fmt.Fprintf(&sb, "- Duration: %s\n", r.Finished.Sub(r.Started).Round(time.Millisecond))
	}
	fmt.Fprintf(&sb, "- Files: %d, converted: %d, failed: %d\n", len(r.Entries), r.Converted(), r.Failed())

	if kinds := r.sortedKinds(); len(kinds) > 0 {
		sb.WriteString("\n## Errors\n\n| Error type | Files |\n|---|---|\n")
		counts := r.ErrorKinds()
		for _, k := range kinds {
			fmt.Fprintf(&sb, "| %s | %d |\n", cell(k), counts[k])
		}
	}

	sb.WriteString("\n## Files\n\n| File | Experiment type | Status | Error type | Message |\n|---|---|---|---|---|\n")
	for _, e := range r.Entries {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			cell(filepath.Base(e.File)), cell(e.ExperimentType), e.Status, cell(e.ErrorKind), cell(e.Message))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteHTML renders the markdown report to HTML.
func WriteHTML(w io.Writer, r *Report) error {
	var md bytes.Buffer
	if err := WriteMarkdown(&md, r); err != nil {
		return err
	}

	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := converter.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Conversion report</title>\n</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// cell escapes a value for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
