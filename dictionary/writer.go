package dictionary

import (
	"fmt"
	"io"
	"strings"
)

const indent = "        "

var banner = []string{
	`//-----------------------------------------------------------------//`,
	`//     ____                    ______ __  __  ____  _  ________    //`,
	`//    / __ \                  /  ___ |  \/  |/ __ \| |/ /  ____|   //`,
	`//   | |  | |_ __   ___ _ __ |  (___ | \  / | |  | | ' /| |__      //`,
	`//   | |  | | '_ \ / _ \ '_ \ \___  \| |\/| | |  | |  < |  __|     //`,
	`//   | |__| | |_) |  __/ | | |____)  | |  | | |__| | . \| |____    //`,
	`//    \____/| .__/ \___|_| |_|______/|_|  |_|\____/|_|\_\______|   //`,
	`//          | |                                                    //`,
	`//          |_|                                                    //`,
	`//                                                                 //`,
	`//              http://www.opensmokepp.polimi.it/                  //`,
	`//             http://creckmodeling.chem.polimi.it/                //`,
	`//-----------------------------------------------------------------//`,
}

// Writer renders dictionary files.
type Writer struct {
	sb strings.Builder
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBanner writes the OpenSMOKE++ banner.
func (w *Writer) WriteBanner() {
	for _, line := range banner {
		w.sb.WriteString(line)
		w.sb.WriteString("\n")
	}
	w.sb.WriteString("\n")
}

// WriteMetadata writes the non-empty metadata fields as comments.
func (w *Writer) WriteMetadata(m Metadata) {
	fields := []struct{ label, value string }{
		{"Source", m.Source},
		{"Author", m.Author},
		{"File DOI", m.FileDOI},
		{"File version", m.FileVersion},
		{"ReSpecTh version", m.ReSpecThVersion},
		{"Experiment type", m.ExperimentType},
		{"Apparatus", m.ApparatusKind},
		{"Description", m.Description},
		{"Reference DOI", m.ReferenceDOI},
		{"Location", m.Location},
		{"Table", m.Table},
		{"Figure", m.Figure},
	}
	wrote := false
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&w.sb, "// %-17s %s\n", f.label+":", f.value)
		wrote = true
	}
	if wrote {
		w.sb.WriteString("\n")
	}
}

// WriteDictionary writes one dictionary block. Keys are padded to the
// longest key of the block.
func (w *Writer) WriteDictionary(d *Dictionary) {
	width := 0
	for _, e := range d.Entries {
		width = max(width, len(e.Key))
	}

	fmt.Fprintf(&w.sb, "Dictionary %s\n{\n", d.Name)
	for _, e := range d.Entries {
		key := fmt.Sprintf("@%-*s", width, e.Key)
		switch {
		case e.Lines != nil:
			fmt.Fprintf(&w.sb, "%s%s\n", indent, strings.TrimRight(key, " "))
			for _, line := range e.Lines {
				fmt.Fprintf(&w.sb, "%s    %s\n", indent, line)
			}
			fmt.Fprintf(&w.sb, "%s;\n", indent)
		case e.Comment:
			fmt.Fprintf(&w.sb, "%s//%s %s;\n", indent, key, e.Value)
		default:
			fmt.Fprintf(&w.sb, "%s%s %s;\n", indent, key, e.Value)
		}
	}
	w.sb.WriteString("}\n\n")
}

// String returns the accumulated output.
func (w *Writer) String() string {
	return w.sb.String()
}

// Render returns the full text of f.
func Render(f *File) string {
	w := NewWriter()
	w.WriteBanner()
	w.WriteMetadata(f.Header)
	for _, d := range f.Dictionaries {
		w.WriteDictionary(d)
	}
	return w.String()
}

// Write writes f to out.
func Write(out io.Writer, f *File) error {
	if _, err := io.WriteString(out, Render(f)); err != nil {
		return fmt.Errorf("write dictionary: %w", err)
	}
	return nil
}
