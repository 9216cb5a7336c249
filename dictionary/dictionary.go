// Package dictionary models OpenSMOKE++ input files and writes them.
//
// A file is a header comment block followed by named dictionaries, each a
// list of @Key value; entries:
//
//	Dictionary mix-status
//	{
//	        @Temperature   1.000000e+03 K;
//	        @Pressure      1.000000e+00 atm;
//	}
package dictionary

import (
	"strconv"
	"strings"
)

// Entry is a single @Key line of a dictionary. Lines, when set, are written
// one per row after the key and closed by a lone ";".
type Entry struct {
	Key     string
	Value   string
	Lines   []string
	Comment bool
}

// Dictionary is a named block of entries.
type Dictionary struct {
	Name    string
	Entries []Entry
}

// New creates an empty dictionary.
func New(name string) *Dictionary {
	return &Dictionary{Name: name}
}

// Set appends a key/value entry and returns d for chaining.
func (d *Dictionary) Set(key, value string) *Dictionary {
	d.Entries = append(d.Entries, Entry{Key: key, Value: value})
	return d
}

// SetLines appends a multi-line entry.
func (d *Dictionary) SetLines(key string, lines []string) *Dictionary {
	d.Entries = append(d.Entries, Entry{Key: key, Lines: lines})
	return d
}

// SetComment appends an entry written commented out. The solver ignores it.
func (d *Dictionary) SetComment(key, value string) *Dictionary {
	d.Entries = append(d.Entries, Entry{Key: key, Value: value, Comment: true})
	return d
}

// Get returns the first entry with the given key.
func (d *Dictionary) Get(key string) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Value returns the value of key, "" when absent.
func (d *Dictionary) Value(key string) string {
	e, _ := d.Get(key)
	return e.Value
}

// Metadata is written as a comment block at the top of a file.
type Metadata struct {
	Source          string
	Author          string
	FileDOI         string
	FileVersion     string
	ReSpecThVersion string
	ExperimentType  string
	ApparatusKind   string
	Description     string
	ReferenceDOI    string
	Location        string
	Table           string
	Figure          string
}

// File is a complete dictionary file.
type File struct {
	Header       Metadata
	Dictionaries []*Dictionary
}

// Add appends dictionaries in order.
func (f *File) Add(ds ...*Dictionary) {
	f.Dictionaries = append(f.Dictionaries, ds...)
}

// Dictionary returns the dictionary called name.
func (f *File) Dictionary(name string) (*Dictionary, bool) {
	for _, d := range f.Dictionaries {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Quantity is a value with its unit.
type Quantity struct {
	Value float64
	Unit  string
}

// String formats q as "<number> <unit>".
func (q Quantity) String() string {
	if q.Unit == "" {
		return Number(q.Value)
	}
	return Number(q.Value) + " " + q.Unit
}

// Number formats v in C-style scientific notation, e.g. 1.000000e+03.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'e', 6, 64)
}

// Numbers formats values separated by spaces, followed by unit if set.
func Numbers(values []float64, unit string) string {
	parts := make([]string, 0, len(values)+1)
	for _, v := range values {
		parts = append(parts, Number(v))
	}
	if unit != "" {
		parts = append(parts, unit)
	}
	return strings.Join(parts, " ")
}
