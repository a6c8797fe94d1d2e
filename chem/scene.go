package chem

import (
	"github.com/molray/molray"
	"github.com/soypat/geometry/ms3"
)

// Bonds render as thin gray cylinders regardless of element.
var bondColor = ms3.Vec{X: 0.67, Y: 0.67, Z: 0.67}

const bondRadius = 0.04

// BuildScene converts a compound into a renderable scene: one sphere per
// atom followed by one cylinder per bond, in compound order. Atom radii are
// the tabulated single-bond covalent radii normalized by the table's largest
// so the biggest atom has unit radius. elems may be nil to use
// [DefaultElements]. Shape order is part of the scene contract: coincident
// surfaces resolve to the earliest shape, so atoms take precedence over the
// bonds drawn between them.
func BuildScene(c *Compound, elems map[string]ElementInfo) (*molray.Scene, error) {
	if elems == nil {
		elems = DefaultElements()
	}
	maxCovalent := 0
	for _, info := range elems {
		for _, r := range info.CovalentRadius {
			if r > maxCovalent {
				maxCovalent = r
			}
		}
	}
	if maxCovalent == 0 {
		maxCovalent = fallbackElement.CovalentRadius[0]
	}
	bld := molray.Builder{NoShapePanic: true}
	for _, atom := range c.Atoms {
		info, ok := elems[atom.Element]
		if !ok {
			info = fallbackElement
		}
		r := float32(info.CovalentRadius[0]) / float32(maxCovalent)
		bld.AddSphere(atom.Position, r, info.color())
	}
	for _, bond := range c.Bonds {
		start := c.Atoms[bond.Src].Position
		end := c.Atoms[bond.Dst].Position
		bld.AddCylinder(start, end, bondRadius, bondColor)
	}
	return bld.Scene()
}
