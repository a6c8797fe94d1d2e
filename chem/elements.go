package chem

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/soypat/geometry/ms3"
)

// ElementInfo is display and sizing data for a chemical element. Radii are
// in picometers; a covalent radius of -1 marks a bond order for which no
// value is tabulated.
type ElementInfo struct {
	// WaalRadius is the van der Waals radius.
	WaalRadius int `json:"waal_radius"`
	// CovalentRadius holds single, double and triple bond radii.
	CovalentRadius [3]int `json:"covalent_radius"`
	// Color is the element's display RGB with components in [0,1].
	Color [3]float32 `json:"color"`
}

// LoadElements decodes an element info table from its JSON representation,
// keyed by element symbol.
func LoadElements(r io.Reader) (map[string]ElementInfo, error) {
	var table map[string]ElementInfo
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("decoding element table: %w", err)
	}
	return table, nil
}

// DefaultElements returns a builtin table of the elements common in organic
// molecules, with CPK display colors, so rendering works without an external
// data file.
func DefaultElements() map[string]ElementInfo {
	return map[string]ElementInfo{
		"H":  {WaalRadius: 120, CovalentRadius: [3]int{31, -1, -1}, Color: [3]float32{1, 1, 1}},
		"C":  {WaalRadius: 170, CovalentRadius: [3]int{76, 67, 60}, Color: [3]float32{0.33, 0.33, 0.33}},
		"N":  {WaalRadius: 155, CovalentRadius: [3]int{71, 60, 54}, Color: [3]float32{0.19, 0.31, 0.97}},
		"O":  {WaalRadius: 152, CovalentRadius: [3]int{66, 57, 53}, Color: [3]float32{1, 0.05, 0.05}},
		"F":  {WaalRadius: 147, CovalentRadius: [3]int{57, 59, 53}, Color: [3]float32{0.56, 0.88, 0.31}},
		"P":  {WaalRadius: 180, CovalentRadius: [3]int{107, 102, 94}, Color: [3]float32{1, 0.5, 0}},
		"S":  {WaalRadius: 180, CovalentRadius: [3]int{105, 94, 95}, Color: [3]float32{1, 1, 0.19}},
		"Cl": {WaalRadius: 175, CovalentRadius: [3]int{102, 95, 93}, Color: [3]float32{0.12, 0.94, 0.12}},
		"Br": {WaalRadius: 185, CovalentRadius: [3]int{120, 114, 110}, Color: [3]float32{0.65, 0.16, 0.16}},
		"I":  {WaalRadius: 198, CovalentRadius: [3]int{139, 129, 125}, Color: [3]float32{0.58, 0, 0.58}},
	}
}

// fallbackElement sizes and colors elements absent from the table: a middle
// gray sphere of roughly carbon size.
var fallbackElement = ElementInfo{
	WaalRadius:     170,
	CovalentRadius: [3]int{77, -1, -1},
	Color:          [3]float32{0.5, 0.5, 0.5},
}

func (e ElementInfo) color() ms3.Vec {
	return ms3.Vec{X: e.Color[0], Y: e.Color[1], Z: e.Color[2]}
}
