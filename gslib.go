package snesim

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// GSLIBHeader holds the parsed preamble of a GSLIB grid file.
type GSLIBHeader struct {
	// Name is the free-form header line, truncated at the first '{' or '('.
	Name string
	// Properties lists the declared property column names, in file order.
	Properties []string
}

// gslibFields splits a data record on spaces and tabs plus the optional
// caller-selected delimiter (tab, space, semicolon, comma).
func gslibFields(line string, delim rune) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == delim
	})
}

// ReadGSLIB parses a GSLIB grid file from r, returning the property named
// propName (by declared column order) as a Property over grid. Values equal
// to sentinel are treated as missing. delim selects an additional
// field separator beyond whitespace (0 to only split on whitespace).
func ReadGSLIB(r io.Reader, grid GridStructure, propName string, sentinel float32, delim rune) (*Property, GSLIBHeader, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	var header GSLIBHeader
	if !scanner.Scan() {
		return nil, header, fmt.Errorf("%w: missing header line", ErrIOFormat)
	}
	header.Name = truncateHeaderName(scanner.Text())

	if !scanner.Scan() {
		return nil, header, fmt.Errorf("%w: missing property count line", ErrIOFormat)
	}
	p, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || p < 1 {
		return nil, header, fmt.Errorf("%w: invalid property count", ErrIOFormat)
	}

	header.Properties = make([]string, p)
	colIndex := -1
	for i := 0; i < p; i++ {
		if !scanner.Scan() {
			return nil, header, fmt.Errorf("%w: missing property name line %d", ErrIOFormat, i+1)
		}
		name := strings.TrimSpace(scanner.Text())
		header.Properties[i] = name
		if name == propName {
			colIndex = i
		}
	}
	if colIndex < 0 {
		return nil, header, fmt.Errorf("%w: property %q not declared", ErrIOFormat, propName)
	}

	prop := NewProperty(grid)
	a := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := gslibFields(line, delim)
		if len(fields) < p {
			return nil, header, fmt.Errorf("%w: record has %d fields, want >= %d", ErrIOFormat, len(fields), p)
		}
		if a >= grid.N() {
			return nil, header, fmt.Errorf("%w: more records than grid cells", ErrIOFormat)
		}
		v, err := strconv.ParseFloat(fields[colIndex], 32)
		if err != nil {
			return nil, header, fmt.Errorf("%w: non-numeric value %q", ErrIOFormat, fields[colIndex])
		}
		if float32(v) != sentinel {
			_ = prop.SetAt(a, float32(v))
		}
		a++
	}
	if err := scanner.Err(); err != nil {
		return nil, header, fmt.Errorf("%w: %v", ErrIOFormat, err)
	}

	return prop, header, nil
}

// WriteGSLIB serializes prop as a single-column GSLIB grid file, writing
// sentinel in place of missing cells, in row-major ix-fastest order.
func WriteGSLIB(w io.Writer, prop *Property, headerName, propName string, sentinel float32) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, headerName); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(bw, 1); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(bw, propName); err != nil {
		return err
	}
	for a := 0; a < prop.Len(); a++ {
		v, ok := prop.GetAt(a)
		if !ok {
			v = sentinel
		}
		if _, err := fmt.Fprintf(bw, "%g\n", v); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func truncateHeaderName(line string) string {
	for i, r := range line {
		if r == '{' || r == '(' {
			return strings.TrimSpace(line[:i])
		}
	}
	return strings.TrimSpace(line)
}
