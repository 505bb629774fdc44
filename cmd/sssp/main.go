// Command sssp runs the single-source shortest paths driver over a graph file.
package main

import "github.com/vertexflow/vertexflow/internal/cli"

func main() {
	cli.Execute("sssp")
}
