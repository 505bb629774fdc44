// Command csrtool converts a COO, Matrix Market, or binary-CSR graph file
// into the engine's on-disk binary CSR format (spec §4.3), optionally
// zstd- or gzip-compressing the output, and prints a JSON summary of the
// resulting graph's shape.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertexflow/vertexflow/internal/formats"
	"github.com/vertexflow/vertexflow/pkg/compression"
	"github.com/vertexflow/vertexflow/pkg/errors"
	"github.com/vertexflow/vertexflow/pkg/graph"
	"github.com/vertexflow/vertexflow/pkg/writer"
)

type summary struct {
	Vertices int  `json:"vertices"`
	Edges    int  `json:"edges"`
	Directed bool `json:"directed"`
	Weighted bool `json:"weighted"`
}

func main() {
	var (
		matrixMkt  bool
		undirected bool
		fromBinary bool
		compress   string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:          "csrtool <input-path>",
		Short:        "Convert a graph file to the engine's binary CSR format",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return convert(args[0], outputPath, matrixMkt, undirected, fromBinary, compress)
		},
	}

	cmd.Flags().BoolVarP(&matrixMkt, "matrix-market", "m", false, "input is Matrix Market")
	cmd.Flags().BoolVarP(&undirected, "undirected", "u", false, "treat COO input as undirected (mirror each edge)")
	cmd.Flags().BoolVarP(&fromBinary, "binary", "b", false, "input is already binary CSR (re-encode, e.g. to compress)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (required)")
	cmd.Flags().StringVar(&compress, "compress", "", "compress the output: gzip, zstd, or empty for none")
	cmd.MarkFlagRequired("output")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func convert(inputPath, outputPath string, matrixMkt, undirected, fromBinary bool, compress string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrap(errors.CodeInvalidInput, "failed to open input file", err)
	}
	defer in.Close()

	var csr *graph.CSR
	switch {
	case fromBinary:
		csr, err = formats.FromBinary(in)
	case matrixMkt:
		csr, err = formats.FromMatrixMarket(in)
	default:
		csr, err = formats.FromCOO(in, undirected)
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := formats.ToBinary(&buf, csr); err != nil {
		return err
	}
	payload := buf.Bytes()

	if compress != "" {
		var t compression.Type
		switch compress {
		case "gzip":
			t = compression.TypeGzip
		case "zstd":
			t = compression.TypeZstd
		default:
			return errors.InvalidInput(fmt.Sprintf("unknown compression %q", compress), nil)
		}
		c, err := compression.New(t, compression.LevelDefault)
		if err != nil {
			return errors.Wrap(errors.CodeUnsupported, "failed to construct compressor", err)
		}
		payload, err = c.Compress(payload)
		if err != nil {
			return errors.Wrap(errors.CodeUnsupported, "failed to compress output", err)
		}
	}

	if err := os.WriteFile(outputPath, payload, 0644); err != nil {
		return errors.Wrap(errors.CodeInvalidInput, "failed to write output file", err)
	}

	jw := writer.NewPrettyJSONWriter[summary]()
	return jw.Write(summary{
		Vertices: csr.NumVertices(),
		Edges:    csr.NumEdges(),
		Directed: csr.Properties.Directed,
		Weighted: csr.Properties.Weighted,
	}, os.Stdout)
}
