// Package species holds the species list of a kinetic mechanism and the
// alias database used to map ReSpecTh species identifiers onto it.
package species

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// KineticsFile is the name of the preprocessed mechanism inside an
// OpenSMOKE++ kinetics folder.
const KineticsFile = "kinetics.xml"

// Mechanism is the list of species of a kinetic mechanism.
type Mechanism struct {
	names         []string
	caseSensitive bool
	exact         map[string]string
	folded        map[string]string
}

// NewMechanism builds a mechanism from species names. With caseSensitive
// false, lookups ignore case and return the mechanism's own spelling.
func NewMechanism(names []string, caseSensitive bool) *Mechanism {
	fold := cases.Fold()
	m := &Mechanism{
		names:         make([]string, 0, len(names)),
		caseSensitive: caseSensitive,
		exact:         make(map[string]string, len(names)),
		folded:        make(map[string]string, len(names)),
	}
	for _, n := range names {
		if _, dup := m.exact[n]; dup {
			continue
		}
		m.names = append(m.names, n)
		m.exact[n] = n
		key := fold.String(n)
		if _, seen := m.folded[key]; !seen {
			m.folded[key] = n
		}
	}
	return m
}

// Names returns the species in mechanism order.
func (m *Mechanism) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of species.
func (m *Mechanism) Len() int { return len(m.names) }

// CaseSensitive reports whether lookups are case sensitive.
func (m *Mechanism) CaseSensitive() bool { return m.caseSensitive }

// Resolve returns the mechanism spelling of name.
func (m *Mechanism) Resolve(name string) (string, error) {
	if m.caseSensitive {
		if n, ok := m.exact[name]; ok {
			return n, nil
		}
		return "", &NotFoundError{Name: name, CaseSensitive: true}
	}
	if n, ok := m.folded[cases.Fold().String(name)]; ok {
		return n, nil
	}
	return "", &NotFoundError{Name: name}
}

// LoadMechanism reads species names from path. path may be an OpenSMOKE++
// kinetics folder, a kinetics.xml file, or a plain text list of names.
func LoadMechanism(path string, caseSensitive bool) (*Mechanism, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat mechanism: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, KineticsFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mechanism: %w", err)
	}

	var names []string
	if looksLikeXML(data) {
		names, err = namesFromKineticsXML(bytes.NewReader(data))
	} else {
		names, err = namesFromList(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parse mechanism %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("parse mechanism %s: no species found", path)
	}
	return NewMechanism(names, caseSensitive), nil
}

func looksLikeXML(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("<"))
}

// namesFromKineticsXML returns the content of the first NamesOfSpecies
// element, wherever it sits in the document.
func namesFromKineticsXML(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing NamesOfSpecies element")
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "NamesOfSpecies" {
			continue
		}
		var body string
		if err := dec.DecodeElement(&body, &start); err != nil {
			return nil, err
		}
		return strings.Fields(body), nil
	}
}

func namesFromList(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexAny(line, "!#"); i >= 0 {
			line = line[:i]
		}
		names = append(names, strings.Fields(line)...)
	}
	return names, sc.Err()
}
