// Package chem ingests chemical structure data and converts it to renderable
// scenes: atoms become spheres, bonds become cylinders. It understands the
// V2000 connection table format used by SDF molfiles as published by PubChem.
package chem

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/soypat/geometry/ms3"
)

// BondType is the bond order field of a V2000 bond line.
type BondType uint8

const (
	BondSingle BondType = iota + 1
	BondDouble
	BondTriple
	BondAromatic
	BondSingleOrDouble
	BondSingleOrAromatic
	BondDoubleOrAromatic
	BondAny
)

// BondTopology is the ring/chain field of a V2000 bond line.
type BondTopology uint8

const (
	TopologyRingOrChain BondTopology = iota
	TopologyRing
	TopologyChain
)

// Atom is a positioned element occurrence.
type Atom struct {
	Position ms3.Vec
	Element  string
}

// Bond connects two atoms by index into the compound's atom list.
type Bond struct {
	Src      int
	Dst      int
	Type     BondType
	Topology BondTopology
}

// Compound is a parsed molecule: atoms, bonds and whatever naming metadata
// the file carried.
type Compound struct {
	// Moniker is the traditional name when present, i.e. "aspirin".
	Moniker string
	// IUPACName is the systematic name when present.
	IUPACName string
	Chiral    bool
	Atoms     []Atom
	Bonds     []Bond
}

// Name returns the best display name available: the moniker, else the IUPAC
// name, else empty.
func (c *Compound) Name() string {
	if c.Moniker != "" {
		return c.Moniker
	}
	return c.IUPACName
}

// ParseCompound parses a V2000 SDF molfile: a counts line on the fourth
// line, an atom block, a bond block and optional PubChem data items for the
// compound's names. Atom indices in the bond block are converted from the
// format's 1-based convention.
func ParseCompound(r io.Reader) (*Compound, error) {
	contents, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading molfile: %w", err)
	}
	lines := strings.Split(string(contents), "\n")
	counts, err := fieldsAt(lines, 3)
	if err != nil {
		return nil, fmt.Errorf("counts line: %w", err)
	}
	numAtoms, err := intField(counts, 0)
	if err != nil {
		return nil, fmt.Errorf("counts line atom count: %w", err)
	}
	numBonds, err := intField(counts, 1)
	if err != nil {
		return nil, fmt.Errorf("counts line bond count: %w", err)
	}
	chiral, err := intField(counts, 3)
	if err != nil {
		return nil, fmt.Errorf("counts line chiral flag: %w", err)
	}
	c := &Compound{Chiral: chiral == 1}

	for i := 0; i < numAtoms; i++ {
		fields, err := fieldsAt(lines, 4+i)
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i, err)
		}
		var pos [3]float32
		for axis := range pos {
			pos[axis], err = floatField(fields, axis)
			if err != nil {
				return nil, fmt.Errorf("atom %d coordinate %d: %w", i, axis, err)
			}
		}
		element, err := field(fields, 3)
		if err != nil {
			return nil, fmt.Errorf("atom %d element: %w", i, err)
		}
		c.Atoms = append(c.Atoms, Atom{
			Position: ms3.Vec{X: pos[0], Y: pos[1], Z: pos[2]},
			Element:  element,
		})
	}

	for i := 0; i < numBonds; i++ {
		fields, err := fieldsAt(lines, 4+numAtoms+i)
		if err != nil {
			return nil, fmt.Errorf("bond %d: %w", i, err)
		}
		src, err := intField(fields, 0)
		if err != nil {
			return nil, fmt.Errorf("bond %d source: %w", i, err)
		}
		dst, err := intField(fields, 1)
		if err != nil {
			return nil, fmt.Errorf("bond %d destination: %w", i, err)
		}
		if src < 1 || src > numAtoms || dst < 1 || dst > numAtoms {
			return nil, fmt.Errorf("bond %d references atom out of range", i)
		}
		order, err := intField(fields, 2)
		if err != nil {
			return nil, fmt.Errorf("bond %d order: %w", i, err)
		}
		topo, err := intField(fields, 5)
		if err != nil {
			return nil, fmt.Errorf("bond %d topology: %w", i, err)
		}
		c.Bonds = append(c.Bonds, Bond{
			Src:      src - 1,
			Dst:      dst - 1,
			Type:     bondType(order),
			Topology: bondTopology(topo),
		})
	}

	// Data items trail the connection table as "> <NAME>" headers followed
	// by the value line.
	for i := 5 + numAtoms + numBonds; i < len(lines)-1; i++ {
		switch strings.TrimSpace(lines[i]) {
		case "> <PUBCHEM_IUPAC_NAME>":
			c.IUPACName = strings.TrimSpace(lines[i+1])
		case "> <PUBCHEM_IUPAC_TRADITIONAL_NAME>":
			c.Moniker = strings.TrimSpace(lines[i+1])
		}
	}
	return c, nil
}

func bondType(order int) BondType {
	if order >= int(BondSingle) && order < int(BondAny) {
		return BondType(order)
	}
	return BondAny
}

func bondTopology(topo int) BondTopology {
	switch topo {
	case 1:
		return TopologyRing
	case 2:
		return TopologyChain
	}
	return TopologyRingOrChain
}

func fieldsAt(lines []string, idx int) ([]string, error) {
	if idx >= len(lines) {
		return nil, fmt.Errorf("missing line %d", idx+1)
	}
	return strings.Fields(lines[idx]), nil
}

func field(fields []string, idx int) (string, error) {
	if idx >= len(fields) {
		return "", fmt.Errorf("missing field %d", idx+1)
	}
	return fields[idx], nil
}

func intField(fields []string, idx int) (int, error) {
	s, err := field(fields, idx)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func floatField(fields []string, idx int) (float32, error) {
	s, err := field(fields, idx)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return float32(v), nil
}
