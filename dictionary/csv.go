package dictionary

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/c360studio/respecthconv/units"
)

// ProfileCSV is a user-defined history read by the solver from a
// ';'-separated file: the initial state, the column names and units, then
// the rows.
type ProfileCSV struct {
	FileName    string
	Temperature Quantity
	Pressure    Quantity
	XName       string
	YName       string
	X           units.Series
	Y           units.Series
}

// WriteProfileCSV writes p to w.
func WriteProfileCSV(w io.Writer, p ProfileCSV) error {
	if p.X.Len() != p.Y.Len() {
		return fmt.Errorf("write profile %s: %d x values, %d y values", p.FileName, p.X.Len(), p.Y.Len())
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	records := [][]string{
		{"temperature", p.Temperature.String()},
		{"pressure", p.Pressure.String()},
		{p.XName, p.X.Unit},
		{p.YName, p.Y.Unit},
		{"profile", ""},
	}
	for i := range p.X.Values {
		records = append(records, []string{Number(p.X.Values[i]), Number(p.Y.Values[i])})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write profile %s: %w", p.FileName, err)
	}
	return nil
}
