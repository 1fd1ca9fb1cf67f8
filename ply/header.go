package ply

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format is the body encoding declared in a PLY header.
type Format int

const (
	BinaryLittleEndian Format = iota
	BinaryBigEndian
	ASCII
)

func (f Format) String() string {
	switch f {
	case BinaryLittleEndian:
		return "binary_little_endian"
	case BinaryBigEndian:
		return "binary_big_endian"
	case ASCII:
		return "ascii"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the Format for a header token such as "binary_big_endian".
func ParseFormat(s string) (Format, error) {
	for _, f := range []Format{BinaryLittleEndian, BinaryBigEndian, ASCII} {
		if s == f.String() {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown PLY format %q", s)
}

const formatVersion = "1.0"

// vertexProperties lists the vertex element properties in record order.
var vertexProperties = [6]string{"x", "y", "z", "nx", "ny", "nz"}

// Header describes a PLY file holding a single float32 vertex element.
type Header struct {
	Format   Format
	Comments []string
	// Count is the number of vertex records that follow the header.
	Count int
}

func (h Header) validate() error {
	if h.Count < 0 {
		return errors.New("negative vertex count")
	}
	if _, err := ParseFormat(h.Format.String()); err != nil {
		return err
	}
	for _, c := range h.Comments {
		if strings.ContainsAny(c, "\r\n") {
			return fmt.Errorf("header comment %q contains a line break", c)
		}
	}
	return nil
}

// WriteTo writes the ASCII header, end_header line included.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	if err := h.validate(); err != nil {
		return 0, err
	}
	var sb strings.Builder
	sb.WriteString("ply\n")
	fmt.Fprintf(&sb, "format %s %s\n", h.Format, formatVersion)
	for _, c := range h.Comments {
		if c == "" {
			sb.WriteString("comment\n")
			continue
		}
		fmt.Fprintf(&sb, "comment %s\n", c)
	}
	fmt.Fprintf(&sb, "element vertex %d\n", h.Count)
	for _, p := range vertexProperties {
		fmt.Fprintf(&sb, "property float %s\n", p)
	}
	sb.WriteString("end_header\n")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
