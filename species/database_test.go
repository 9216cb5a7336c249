package species

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_Lookup(t *testing.T) {
	db := NewDatabase([]Entry{
		{Name: "C2H4", ChemName: "ethylene", CAS: "74-85-1"},
		{Name: "NC7H16", ChemName: "n-heptane", CAS: "142-82-5"},
		{Name: "DUPLICATE", ChemName: "ethylene", CAS: "74-85-1"},
	})

	tests := []struct {
		name     string
		cas      string
		chemName string
		want     string
		found    bool
	}{
		{"by CAS", "142-82-5", "", "NC7H16", true},
		{"CAS wins over chem name", "142-82-5", "ethylene", "NC7H16", true},
		{"falls back to chem name", "0-00-0", "ethylene", "C2H4", true},
		{"chem name only", "", "n-heptane", "NC7H16", true},
		{"no identifiers", "", "", "", false},
		{"unknown", "1-1-1", "unobtainium", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := db.Lookup(tt.cas, tt.chemName)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatabase_Inactive(t *testing.T) {
	var db *Database
	assert.False(t, db.Active())
	assert.Equal(t, 0, db.Len())
	_, ok := db.Lookup("74-85-1", "ethylene")
	assert.False(t, ok)

	empty := NewDatabase(nil)
	assert.False(t, empty.Active())
}

func TestLoadDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.xml")
	content := `<?xml version="1.0"?>
<database>
  <species name="CH4" chemName="methane" CAS="74-82-8"/>
  <species name="H2O" chemName="water" CAS="7732-18-5"/>
</database>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	db, err := LoadDatabase(path)
	require.NoError(t, err)
	assert.True(t, db.Active())
	assert.Equal(t, 2, db.Len())

	got, ok := db.Lookup("", "water")
	assert.True(t, ok)
	assert.Equal(t, "H2O", got)

	db.Summary(nil)

	_, err = LoadDatabase(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}
