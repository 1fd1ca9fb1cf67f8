package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/soypat/pointcloud"
)

// readPLY decodes files produced by this package so tests can check
// round trips. It is not a general PLY reader.
func readPLY(r io.Reader) (Header, pointcloud.Cloud, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return h, nil, err
	}
	cloud := make(pointcloud.Cloud, 0, h.Count)
	if h.Format == ASCII {
		for i := 0; i < h.Count; i++ {
			s, err := br.ReadString('\n')
			if err != nil {
				return h, nil, fmt.Errorf("%d/%d vertices read: %w", i, h.Count, err)
			}
			fields := strings.Fields(s)
			if len(fields) != len(vertexProperties) {
				return h, nil, fmt.Errorf("vertex %d: got %d fields", i, len(fields))
			}
			var f [6]float32
			for j := range f {
				v, err := strconv.ParseFloat(fields[j], 32)
				if err != nil {
					return h, nil, err
				}
				f[j] = float32(v)
			}
			cloud = append(cloud, pointcloud.Vertex{X: f[0], Y: f[1], Z: f[2], NX: f[3], NY: f[4], NZ: f[5]})
		}
	} else {
		var order binary.ByteOrder = binary.LittleEndian
		if h.Format == BinaryBigEndian {
			order = binary.BigEndian
		}
		var buf [recordSize]byte
		for i := 0; i < h.Count; i++ {
			if _, err := io.ReadFull(br, buf[:]); err != nil {
				return h, nil, fmt.Errorf("%d/%d vertices read: %w", i, h.Count, err)
			}
			cloud = append(cloud, getVertex(buf[:], order))
		}
	}
	// Trailing bytes mean the header count is wrong.
	if n, _ := io.Copy(io.Discard, br); n != 0 {
		return h, nil, fmt.Errorf("%d trailing bytes after %d vertices", n, h.Count)
	}
	return h, cloud, nil
}

func getVertex(b []byte, order binary.ByteOrder) pointcloud.Vertex {
	_ = b[recordSize-1] // early bounds check
	return pointcloud.Vertex{
		X:  math.Float32frombits(order.Uint32(b)),
		Y:  math.Float32frombits(order.Uint32(b[4:])),
		Z:  math.Float32frombits(order.Uint32(b[8:])),
		NX: math.Float32frombits(order.Uint32(b[12:])),
		NY: math.Float32frombits(order.Uint32(b[16:])),
		NZ: math.Float32frombits(order.Uint32(b[20:])),
	}
}

// readHeader parses a header written by WriteTo. It is used to check
// written files and does not handle arbitrary PLY headers.
func readHeader(br *bufio.Reader) (Header, error) {
	var h Header
	line := func() (string, error) {
		s, err := br.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading PLY header: %w", err)
		}
		return strings.TrimSuffix(s, "\n"), nil
	}
	s, err := line()
	if err != nil {
		return h, err
	}
	if s != "ply" {
		return h, fmt.Errorf("bad PLY magic %q", s)
	}
	var prop int
	for {
		s, err = line()
		if err != nil {
			return h, err
		}
		fields := strings.Fields(s)
		switch {
		case s == "end_header":
			if prop != len(vertexProperties) {
				return h, fmt.Errorf("got %d vertex properties, want %d", prop, len(vertexProperties))
			}
			return h, nil
		case len(fields) == 3 && fields[0] == "format":
			if fields[2] != formatVersion {
				return h, fmt.Errorf("unsupported PLY version %q", fields[2])
			}
			h.Format, err = ParseFormat(fields[1])
			if err != nil {
				return h, err
			}
		case len(fields) > 0 && fields[0] == "comment":
			h.Comments = append(h.Comments, strings.TrimPrefix(strings.TrimPrefix(s, "comment"), " "))
		case len(fields) == 3 && fields[0] == "element" && fields[1] == "vertex":
			_, err = fmt.Sscanf(fields[2], "%d", &h.Count)
			if err != nil {
				return h, fmt.Errorf("bad vertex count %q: %w", fields[2], err)
			}
		case len(fields) == 3 && fields[0] == "property":
			if prop >= len(vertexProperties) || fields[1] != "float" || fields[2] != vertexProperties[prop] {
				return h, fmt.Errorf("unexpected property line %q", s)
			}
			prop++
		default:
			return h, fmt.Errorf("unexpected PLY header line %q", s)
		}
	}
}
