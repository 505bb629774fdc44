package formats

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/vertexflow/vertexflow/pkg/errors"
	"github.com/vertexflow/vertexflow/pkg/graph"
)

// FromMatrixMarket reads a NIST Matrix Market coordinate file: a "%%"
// banner, optional "%" comment lines, a "rows cols nonzeros" dimension
// line, then one "row col [value]" line per nonzero (1-indexed, per the
// format's convention — converted to 0-indexed vertices here). A
// "symmetric" banner mirrors every off-diagonal entry.
func FromMatrixMarket(r io.Reader) (*graph.CSR, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, errors.InvalidInput("empty Matrix Market input", nil)
	}
	banner := strings.ToLower(scanner.Text())
	if !strings.HasPrefix(banner, "%%matrixmarket") {
		return nil, errors.InvalidInput("missing %%MatrixMarket banner", nil)
	}
	symmetric := strings.Contains(banner, "symmetric")

	var rows, cols, nonzeros int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, errors.InvalidInput("malformed Matrix Market dimension line", nil)
		}
		var err error
		if rows, err = strconv.Atoi(fields[0]); err != nil {
			return nil, errors.InvalidInput("invalid row count", err)
		}
		if cols, err = strconv.Atoi(fields[1]); err != nil {
			return nil, errors.InvalidInput("invalid column count", err)
		}
		if nonzeros, err = strconv.Atoi(fields[2]); err != nil {
			return nil, errors.InvalidInput("invalid nonzero count", err)
		}
		break
	}
	if rows <= 0 || cols <= 0 {
		return nil, errors.InvalidInput("Matrix Market dimensions must be positive", nil)
	}

	numVertices := rows
	if cols > numVertices {
		numVertices = cols
	}
	b := graph.NewBuilder(numVertices, graph.Properties{Directed: !symmetric, Weighted: true})

	read := 0
	for scanner.Scan() && read < nonzeros {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, errors.InvalidInput("malformed Matrix Market entry line", nil)
		}
		row, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, errors.InvalidInput("invalid row index", err)
		}
		col, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, errors.InvalidInput("invalid column index", err)
		}
		value := 1.0
		if len(fields) >= 3 {
			value, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, errors.InvalidInput("invalid entry value", err)
			}
		}
		src, dst := uint32(row-1), uint32(col-1)
		if err := b.AddEdge(src, dst, value); err != nil {
			return nil, err
		}
		if symmetric && src != dst {
			if err := b.AddEdge(dst, src, value); err != nil {
				return nil, err
			}
		}
		read++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, "failed to read Matrix Market input", err)
	}

	return b.Build(), nil
}
