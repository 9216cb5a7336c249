package species

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
)

// Entry is one record of the species alias database.
type Entry struct {
	Name     string `xml:"name,attr"`
	ChemName string `xml:"chemName,attr"`
	CAS      string `xml:"CAS,attr"`
}

// Database maps CAS numbers and chemical names to mechanism species names.
// A nil or empty Database is inactive and never matches.
type Database struct {
	entries    []Entry
	byCAS      map[string]string
	byChemName map[string]string
}

// NewDatabase indexes entries. The first entry wins on duplicate keys.
func NewDatabase(entries []Entry) *Database {
	db := &Database{
		entries:    entries,
		byCAS:      make(map[string]string, len(entries)),
		byChemName: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.CAS != "" {
			if _, ok := db.byCAS[e.CAS]; !ok {
				db.byCAS[e.CAS] = e.Name
			}
		}
		if e.ChemName != "" {
			if _, ok := db.byChemName[e.ChemName]; !ok {
				db.byChemName[e.ChemName] = e.Name
			}
		}
	}
	return db
}

// LoadDatabase reads an XML alias database:
//
//	<database>
//	  <species name="C2H4" chemName="ethylene" CAS="74-85-1"/>
//	</database>
func LoadDatabase(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open species database: %w", err)
	}
	defer f.Close()

	var doc struct {
		XMLName xml.Name `xml:"database"`
		Species []Entry  `xml:"species"`
	}
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode species database %s: %w", path, err)
	}
	return NewDatabase(doc.Species), nil
}

// Active reports whether the database holds any entry.
func (db *Database) Active() bool {
	return db != nil && len(db.entries) > 0
}

// Len returns the number of entries.
func (db *Database) Len() int {
	if db == nil {
		return 0
	}
	return len(db.entries)
}

// Lookup returns the mechanism name for a species identified by CAS number
// or chemical name. The CAS number is tried first.
func (db *Database) Lookup(cas, chemName string) (string, bool) {
	if !db.Active() {
		return "", false
	}
	if cas != "" {
		if n, ok := db.byCAS[cas]; ok {
			return n, true
		}
	}
	if chemName != "" {
		if n, ok := db.byChemName[chemName]; ok {
			return n, true
		}
	}
	return "", false
}

// Summary logs every entry at debug level.
func (db *Database) Summary(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if !db.Active() {
		logger.Debug("Species database inactive")
		return
	}
	for _, e := range db.entries {
		logger.Debug("Species alias", "name", e.Name, "chem_name", e.ChemName, "cas", e.CAS)
	}
	logger.Info("Species database loaded", "entries", len(db.entries))
}
