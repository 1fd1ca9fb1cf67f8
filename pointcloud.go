package pointcloud

import (
	"errors"
	"fmt"

	"github.com/soypat/pointcloud/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrMalformedInput is returned when a flat coordinate sequence
// cannot be partitioned into whole points.
var ErrMalformedInput = errors.New("malformed point cloud input")

// Vertex is a point position followed by its normal. Field order
// matches the on-disk property order and must not change.
type Vertex struct {
	X, Y, Z    float32
	NX, NY, NZ float32
}

// Pos returns the position of the vertex.
func (v Vertex) Pos() r3.Vec {
	return d3.FromF32([3]float32{v.X, v.Y, v.Z})
}

// Normal returns the normal of the vertex.
func (v Vertex) Normal() r3.Vec {
	return d3.FromF32([3]float32{v.NX, v.NY, v.NZ})
}

// Cloud is an ordered set of vertices sharing a single record layout.
type Cloud []Vertex

// FromFlat groups flat into consecutive (x, y, z) triplets, preserving
// order. Every vertex gets a zero normal.
func FromFlat(flat []float32) (Cloud, error) {
	if rem := len(flat) % 3; rem != 0 {
		return nil, fmt.Errorf("%w: %d values is not a multiple of 3 (%d trailing)", ErrMalformedInput, len(flat), rem)
	}
	cloud := make(Cloud, len(flat)/3)
	for i := range cloud {
		p := flat[3*i : 3*i+3]
		cloud[i] = Vertex{X: p[0], Y: p[1], Z: p[2]}
	}
	return cloud, nil
}

// FromVecs builds a cloud from positions, narrowed to float32. Every
// vertex gets a zero normal.
func FromVecs(positions []r3.Vec) Cloud {
	cloud := make(Cloud, len(positions))
	for i, v := range positions {
		f := d3.ToF32(v)
		cloud[i] = Vertex{X: f[0], Y: f[1], Z: f[2]}
	}
	return cloud
}

// Flat returns the positions of the cloud as a flat x, y, z sequence.
// It is the inverse of FromFlat.
func (c Cloud) Flat() []float32 {
	flat := make([]float32, 0, 3*len(c))
	for _, v := range c {
		flat = append(flat, v.X, v.Y, v.Z)
	}
	return flat
}

// Bounds returns the axis aligned box enclosing all positions.
// An empty cloud has zero bounds.
func (c Cloud) Bounds() (min, max r3.Vec) {
	pos := make([]r3.Vec, len(c))
	for i := range c {
		pos[i] = c[i].Pos()
	}
	b := d3.BoxOf(pos...)
	return b.Min, b.Max
}
