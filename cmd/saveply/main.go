// Command saveply reads a flat list of x, y, z coordinates and writes
// them as a PLY point cloud with zero normals.
package main

import (
	"log"
	"os"

	"github.com/soypat/pointcloud"
	"github.com/soypat/pointcloud/ply"
	"github.com/soypat/pointcloud/preview"
	flag "github.com/spf13/pflag"
	"gonum.org/v1/plot/vg"
)

func main() {
	var (
		in       = flag.StringP("in", "i", "testdata/directions.txt", "input file of comma or whitespace separated coordinates")
		out      = flag.StringP("out", "o", "test.ply", "output PLY file")
		format   = flag.String("format", ply.BinaryLittleEndian.String(), "body encoding: binary_little_endian, binary_big_endian or ascii")
		comments = flag.StringArray("comment", nil, "header comment line, may be repeated")
		png      = flag.String("preview", "", "if set, also write a scatter plot of the points to this image file")
		plane    = flag.String("plane", preview.PlaneXY.String(), "preview projection plane: xy, xz or yz")
	)
	flag.Parse()
	if err := run(*in, *out, *format, *comments, *png, *plane); err != nil {
		log.Fatal(err)
	}
}

func run(in, out, format string, comments []string, png, plane string) error {
	f, err := ply.ParseFormat(format)
	if err != nil {
		return err
	}
	pl, err := preview.ParsePlane(plane)
	if err != nil {
		return err
	}
	fp, err := os.Open(in)
	if err != nil {
		return err
	}
	flat, err := pointcloud.ReadFlat(fp)
	fp.Close()
	if err != nil {
		return err
	}
	cloud, err := pointcloud.FromFlat(flat)
	if err != nil {
		return err
	}
	log.Printf("read (%d, 3) points from %s", len(cloud), in)
	err = ply.CreatePLY(out, cloud, ply.WithFormat(f), ply.WithComments(comments...))
	if err != nil {
		return err
	}
	log.Printf("wrote %s", out)
	if png == "" {
		return nil
	}
	if err := preview.Save(png, cloud, pl, 6*vg.Inch); err != nil {
		return err
	}
	log.Printf("wrote preview %s", png)
	return nil
}
