package pointcloud

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ReadFlat reads a flat sequence of numbers separated by commas and/or
// whitespace. Text following a '#' on a line is ignored.
// The returned slice length is not checked to be a multiple of 3, see FromFlat.
func ReadFlat(r io.Reader) ([]float32, error) {
	var (
		flat []float32
		sp   flatSplitter
	)
	sc := bufio.NewScanner(r)
	sc.Split(sp.split)
	for sc.Scan() {
		field := sc.Text()
		f, err := strconv.ParseFloat(field, 32)
		if errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: line %d: %q is out of float32 range", ErrMalformedInput, sp.tokenLine, field)
		} else if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q is not a number", ErrMalformedInput, sp.tokenLine, field)
		}
		flat = append(flat, float32(f))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return flat, nil
}

// flatSplitter tokenizes numbers one at a time so line length is unbounded.
type flatSplitter struct {
	lines     int // newlines consumed
	tokenLine int // 1-based line of the last token
	comment   bool
}

func isFlatSep(c byte) bool {
	return c == ',' || c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '#'
}

func (s *flatSplitter) split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	i := 0
	for i < len(data) {
		c := data[i]
		if s.comment {
			if c == '\n' {
				s.comment = false
				s.lines++
			}
			i++
			continue
		}
		if !isFlatSep(c) {
			break
		}
		switch c {
		case '\n':
			s.lines++
		case '#':
			s.comment = true
		}
		i++
	}
	if i == len(data) {
		return i, nil, nil
	}
	start := i
	for i < len(data) && !isFlatSep(data[i]) {
		i++
	}
	if i == len(data) && !atEOF {
		// Token may continue past the buffered data.
		return start, nil, nil
	}
	s.tokenLine = s.lines + 1
	return i, data[start:i], nil
}
