// Package preview draws 2D scatter projections of point clouds
// for quick visual inspection.
package preview

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/pointcloud"
	"github.com/soypat/pointcloud/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plane is the plane points are projected onto.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "xy"
	case PlaneXZ:
		return "xz"
	case PlaneYZ:
		return "yz"
	}
	return fmt.Sprintf("Plane(%d)", int(p))
}

// ParsePlane parses "xy", "xz" or "yz".
func ParsePlane(s string) (Plane, error) {
	for _, p := range []Plane{PlaneXY, PlaneXZ, PlaneYZ} {
		if s == p.String() {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown projection plane %q", s)
}

func (p Plane) project(v r3.Vec) plotter.XY {
	switch p {
	case PlaneXZ:
		return plotter.XY{X: v.X, Y: v.Z}
	case PlaneYZ:
		return plotter.XY{X: v.Y, Y: v.Z}
	}
	return plotter.XY{X: v.X, Y: v.Y}
}

func (p Plane) axes() (x, y string) {
	s := p.String()
	return s[:1], s[1:]
}

// Plot returns a scatter plot of the cloud projected onto plane.
// Non-finite points are skipped. Both axes share the same scale.
func Plot(cloud pointcloud.Cloud, plane Plane) (*plot.Plot, error) {
	if _, err := ParsePlane(plane.String()); err != nil {
		return nil, err
	}
	xys := make(plotter.XYs, 0, len(cloud))
	finite := make([]r3.Vec, 0, len(cloud))
	for _, v := range cloud {
		if d3.Bad3F32([3]float32{v.X, v.Y, v.Z}) {
			continue
		}
		finite = append(finite, v.Pos())
		xys = append(xys, plane.project(v.Pos()))
	}
	if len(xys) == 0 {
		return nil, errors.New("no finite points to plot")
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d points, %s projection", len(xys), plane)
	p.X.Label.Text, p.Y.Label.Text = plane.axes()
	p.Add(scatter, plotter.NewGrid())

	box := d3.BoxOf(finite...)
	center := plane.project(box.Center())
	size := plane.project(box.Size())
	half := 1.05 * math.Max(size.X, size.Y) / 2
	if half == 0 {
		half = 1
	}
	p.X.Min, p.X.Max = center.X-half, center.X+half
	p.Y.Min, p.Y.Max = center.Y-half, center.Y+half
	return p, nil
}

// Save plots the cloud and writes it to path. The image format is
// chosen from the file extension (png, svg, pdf...).
func Save(path string, cloud pointcloud.Cloud, plane Plane, size vg.Length) error {
	p, err := Plot(cloud, plane)
	if err != nil {
		return err
	}
	return p.Save(size, size, path)
}
