// Command cc runs the connected components driver over a graph file.
package main

import "github.com/vertexflow/vertexflow/internal/cli"

func main() {
	cli.Execute("cc")
}
