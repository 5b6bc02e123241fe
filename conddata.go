package snesim

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CondRecord is one conditioning-data record resolved to a spatial index.
type CondRecord struct {
	Index SpatialIndex
	Value float32
}

// ReadCondData parses a conditional-data table: a header row of column
// names including at least x and y (and z in 3D), followed by
// whitespace/delimiter-separated records.
// Coordinates are resolved to spatial indices via
// GridStructure.CoordToSpatialIndex (round-to-nearest-cell-center);
// out-of-bounds records are silently discarded. A single sentinel marks a
// missing property value.
func ReadCondData(r io.Reader, grid GridStructure, propName string, sentinel float32, delim rune) ([]CondRecord, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: missing header row", ErrIOFormat)
	}
	cols := gslibFields(scanner.Text(), delim)
	colIdx := make(map[string]int, len(cols))
	for i, c := range cols {
		colIdx[strings.ToLower(c)] = i
	}

	xi, xok := colIdx["x"]
	yi, yok := colIdx["y"]
	if !xok || !yok {
		return nil, fmt.Errorf("%w: missing x/y columns", ErrIOFormat)
	}
	zi, zok := colIdx["z"]
	if !grid.Is2D() && !zok {
		return nil, fmt.Errorf("%w: missing z column for 3D grid", ErrIOFormat)
	}
	pi, pok := colIdx[strings.ToLower(propName)]
	if !pok {
		return nil, fmt.Errorf("%w: property column %q not found", ErrIOFormat, propName)
	}

	var out []CondRecord
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := gslibFields(line, delim)
		need := len(cols)
		if len(fields) < need {
			return nil, fmt.Errorf("%w: record has %d fields, want >= %d", ErrIOFormat, len(fields), need)
		}

		x, err := strconv.ParseFloat(fields[xi], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid x %q", ErrIOFormat, fields[xi])
		}
		y, err := strconv.ParseFloat(fields[yi], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid y %q", ErrIOFormat, fields[yi])
		}
		z := 0.0
		if !grid.Is2D() {
			z, err = strconv.ParseFloat(fields[zi], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid z %q", ErrIOFormat, fields[zi])
			}
		}

		si, err := grid.CoordToSpatialIndex(Coord{X: x, Y: y, Z: z})
		if err != nil {
			continue // out of bounds: discard
		}

		v, err := strconv.ParseFloat(fields[pi], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid property value %q", ErrIOFormat, fields[pi])
		}
		if float32(v) == sentinel {
			continue
		}

		out = append(out, CondRecord{Index: si, Value: float32(v)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFormat, err)
	}

	return out, nil
}

// ApplyCondData writes each record's value into prop, as hard data.
func ApplyCondData(prop *Property, records []CondRecord) error {
	for _, rec := range records {
		if err := prop.Set(rec.Index, rec.Value); err != nil {
			return err
		}
	}
	return nil
}
