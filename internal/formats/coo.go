package formats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vertexflow/vertexflow/pkg/errors"
	"github.com/vertexflow/vertexflow/pkg/graph"
)

// cooTriple is one (row, col, value) coordinate-list entry.
type cooTriple struct {
	row, col uint32
	value    float64
}

// FromCOO reads a plain-text coordinate list: a first line giving the
// vertex count, followed by "row col [value]" lines (value defaults to
// 1.0 when omitted). undirected, when true, mirrors every edge so the
// resulting CSR is symmetric.
func FromCOO(r io.Reader, undirected bool) (*graph.CSR, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, errors.InvalidInput("empty COO input", nil)
	}
	numVertices, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || numVertices <= 0 {
		return nil, errors.InvalidInput("invalid COO vertex count header", err)
	}

	b := graph.NewBuilder(numVertices, graph.Properties{Directed: !undirected})
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		triple, err := parseCOOLine(line)
		if err != nil {
			return nil, err
		}
		if err := b.AddEdge(triple.row, triple.col, triple.value); err != nil {
			return nil, err
		}
		if undirected && triple.row != triple.col {
			if err := b.AddEdge(triple.col, triple.row, triple.value); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, "failed to read COO input", err)
	}

	return b.Build(), nil
}

func parseCOOLine(line string) (cooTriple, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return cooTriple{}, errors.InvalidInput(fmt.Sprintf("malformed COO line %q", line), nil)
	}
	row, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return cooTriple{}, errors.InvalidInput("invalid COO row index", err)
	}
	col, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return cooTriple{}, errors.InvalidInput("invalid COO column index", err)
	}
	value := 1.0
	if len(fields) >= 3 {
		value, err = strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return cooTriple{}, errors.InvalidInput("invalid COO value", err)
		}
	}
	return cooTriple{row: uint32(row), col: uint32(col), value: value}, nil
}
