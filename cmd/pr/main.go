// Command pr runs the PageRank driver over a graph file.
package main

import "github.com/vertexflow/vertexflow/internal/cli"

func main() {
	cli.Execute("pr")
}
