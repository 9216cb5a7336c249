// Package respecth decodes ReSpecTh experiment files and reads their
// constant and varying quantities with normalized units.
package respecth

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Property names with a special role in ReSpecTh files.
const (
	InitialComposition = "initial composition"
	CompositionColumn  = "composition"
)

// Version is a major/minor version pair.
type Version struct {
	Major uint `xml:"major"`
	Minor uint `xml:"minor"`
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// Bibliography is the bibliographyLink block of a file.
type Bibliography struct {
	Description  string `xml:"description"`
	ReferenceDOI string `xml:"referenceDOI"`
	Location     string `xml:"location"`
	Table        string `xml:"table"`
	Figure       string `xml:"figure"`
}

// Apparatus describes the experimental device.
type Apparatus struct {
	Kind string `xml:"kind"`
	Mode string `xml:"mode"`
}

// SpeciesLink identifies a species.
type SpeciesLink struct {
	PreferredKey string `xml:"preferredKey,attr"`
	ChemName     string `xml:"chemName,attr"`
	CAS          string `xml:"CAS,attr"`
	InChI        string `xml:"InChI,attr"`
}

// Amount is the quantity of a component.
type Amount struct {
	Units string `xml:"units,attr"`
	Value string `xml:",chardata"`
}

// ComponentXML is a component of an initial composition.
type ComponentXML struct {
	SpeciesLink SpeciesLink `xml:"speciesLink"`
	Amount      Amount      `xml:"amount"`
}

// Property is a commonProperties entry or a dataGroup column declaration.
type Property struct {
	Name        string         `xml:"name,attr"`
	ID          string         `xml:"id,attr"`
	Label       string         `xml:"label,attr"`
	Units       string         `xml:"units,attr"`
	SourceType  string         `xml:"sourcetype,attr"`
	Value       string         `xml:"value"`
	Components  []ComponentXML `xml:"component"`
	SpeciesLink *SpeciesLink   `xml:"speciesLink"`
}

// Cell is one value of a dataPoint, named by the column id.
type Cell struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// DataPoint is a row of a dataGroup.
type DataPoint struct {
	Cells []Cell `xml:",any"`
}

// Value returns the number stored under column id.
func (p DataPoint) Value(id string) (float64, error) {
	for _, c := range p.Cells {
		if c.XMLName.Local == id {
			return parseFloat(id, c.Value)
		}
	}
	return 0, fmt.Errorf("%w: column %s in dataPoint", ErrMissingElement, id)
}

// DataGroup is a table of dataPoints.
type DataGroup struct {
	ID         string      `xml:"id,attr"`
	Label      string      `xml:"label,attr"`
	Properties []Property  `xml:"property"`
	DataPoints []DataPoint `xml:"dataPoint"`
}

// Property returns the first column declared with the given name.
func (g *DataGroup) Property(name string) (*Property, bool) {
	for i := range g.Properties {
		if g.Properties[i].Name == name {
			return &g.Properties[i], true
		}
	}
	return nil, false
}

// IgnitionType describes how the ignition delay was detected.
type IgnitionType struct {
	Target string `xml:"target,attr"`
	Type   string `xml:"type,attr"`
	Amount string `xml:"amount,attr"`
	Units  string `xml:"units,attr"`
}

// Document is a decoded ReSpecTh experiment file.
type Document struct {
	XMLName          xml.Name      `xml:"experiment"`
	FileAuthor       string        `xml:"fileAuthor"`
	FileDOI          string        `xml:"fileDOI"`
	FileVersion      Version       `xml:"fileVersion"`
	ReSpecThVersion  *Version      `xml:"ReSpecThVersion"`
	Bibliography     Bibliography  `xml:"bibliographyLink"`
	ExperimentType   string        `xml:"experimentType"`
	Apparatus        Apparatus     `xml:"apparatus"`
	CommonProperties []Property    `xml:"commonProperties>property"`
	DataGroups       []DataGroup   `xml:"dataGroup"`
	IgnitionType     *IgnitionType `xml:"ignitionType"`
}

// Parse decodes a ReSpecTh document and checks its mandatory elements.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode experiment: %w", ErrDecode, err)
	}
	doc.FileAuthor = strings.TrimSpace(doc.FileAuthor)
	doc.ExperimentType = strings.TrimSpace(doc.ExperimentType)
	doc.Apparatus.Kind = strings.TrimSpace(doc.Apparatus.Kind)
	doc.Apparatus.Mode = strings.TrimSpace(doc.Apparatus.Mode)

	switch {
	case doc.FileAuthor == "":
		return nil, fmt.Errorf("%w: experiment.fileAuthor", ErrMissingElement)
	case doc.ReSpecThVersion == nil:
		return nil, fmt.Errorf("%w: experiment.ReSpecThVersion", ErrMissingElement)
	case doc.ExperimentType == "":
		return nil, fmt.Errorf("%w: experiment.experimentType", ErrMissingElement)
	}
	return &doc, nil
}

// ParseFile decodes the ReSpecTh document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open experiment: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ApparatusKind returns the apparatus kind, "unspecified" when absent.
func (d *Document) ApparatusKind() string {
	if d.Apparatus.Kind == "" {
		return "unspecified"
	}
	return d.Apparatus.Kind
}

func parseFloat(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadValue, what, s)
	}
	return v, nil
}
