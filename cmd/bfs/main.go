// Command bfs runs the breadth-first search driver over a graph file.
package main

import "github.com/vertexflow/vertexflow/internal/cli"

func main() {
	cli.Execute("bfs")
}
