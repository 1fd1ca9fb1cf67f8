package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/soypat/pointcloud"
)

// recordSize is the size in bytes of one binary vertex record.
const recordSize = 4 * len(vertexProperties)

const recordsInBuffer = 1 << 10

// WriteError is returned when the output file cannot be created,
// written or closed. The file contents are unspecified after a WriteError.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return "writing PLY file " + e.Path + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error { return e.Err }

type config struct {
	format   Format
	comments []string
}

// Option configures how a point cloud is encoded.
type Option func(*config)

// WithFormat sets the body encoding. Default is BinaryLittleEndian.
func WithFormat(f Format) Option {
	return func(c *config) { c.format = f }
}

// WithComments adds comment lines to the header.
func WithComments(comments ...string) Option {
	return func(c *config) { c.comments = append(c.comments, comments...) }
}

// WritePointCloud partitions flat into (x, y, z) points, pairs each with a
// zero normal and writes them as a PLY vertex element to path. Malformed
// input is reported before the file is created.
func WritePointCloud(flat []float32, path string, opts ...Option) error {
	cloud, err := pointcloud.FromFlat(flat)
	if err != nil {
		return err
	}
	return CreatePLY(path, cloud, opts...)
}

// CreatePLY creates or truncates the file at path and writes cloud to it.
func CreatePLY(path string, cloud pointcloud.Cloud, opts ...Option) (err error) {
	h, err := newHeader(cloud, opts)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		cerr := file.Close()
		if err == nil && cerr != nil {
			err = &WriteError{Path: path, Err: cerr}
		}
	}()
	bw := bufio.NewWriterSize(file, recordSize*recordsInBuffer)
	if err = encode(bw, h, cloud); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = bw.Flush(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// WritePLY writes cloud to w in PLY format.
func WritePLY(w io.Writer, cloud pointcloud.Cloud, opts ...Option) error {
	h, err := newHeader(cloud, opts)
	if err != nil {
		return err
	}
	return encode(w, h, cloud)
}

func newHeader(cloud pointcloud.Cloud, opts []Option) (Header, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	h := Header{
		Format:   cfg.format,
		Comments: cfg.comments,
		Count:    len(cloud),
	}
	return h, h.validate()
}

func encode(w io.Writer, h Header, cloud pointcloud.Cloud) error {
	if _, err := h.WriteTo(w); err != nil {
		return err
	}
	switch h.Format {
	case ASCII:
		return encodeASCII(w, cloud)
	case BinaryBigEndian:
		return encodeBinary(w, binary.BigEndian, cloud)
	default:
		return encodeBinary(w, binary.LittleEndian, cloud)
	}
}

func encodeBinary(w io.Writer, order binary.ByteOrder, cloud pointcloud.Cloud) error {
	buf := make([]byte, recordSize*recordsInBuffer)
	for len(cloud) > 0 {
		n := min(len(cloud), recordsInBuffer)
		for i, v := range cloud[:n] {
			putVertex(buf[i*recordSize:], order, v)
		}
		if _, err := w.Write(buf[:n*recordSize]); err != nil {
			return err
		}
		cloud = cloud[n:]
	}
	return nil
}

func putVertex(b []byte, order binary.ByteOrder, v pointcloud.Vertex) {
	_ = b[recordSize-1] // early bounds check
	order.PutUint32(b, math.Float32bits(v.X))
	order.PutUint32(b[4:], math.Float32bits(v.Y))
	order.PutUint32(b[8:], math.Float32bits(v.Z))
	order.PutUint32(b[12:], math.Float32bits(v.NX))
	order.PutUint32(b[16:], math.Float32bits(v.NY))
	order.PutUint32(b[20:], math.Float32bits(v.NZ))
}

func encodeASCII(w io.Writer, cloud pointcloud.Cloud) error {
	var line []byte
	for _, v := range cloud {
		line = line[:0]
		for i, f := range [6]float32{v.X, v.Y, v.Z, v.NX, v.NY, v.NZ} {
			if i > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendFloat(line, float64(f), 'g', -1, 32)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("writing ASCII vertex: %w", err)
		}
	}
	return nil
}

func min(a, b int) int {
	if a <= b {
		return a
	}
	return b
}
