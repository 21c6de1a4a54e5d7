// Command boards manages fields and rows and shows them grouped into boards.
package main

import "github.com/mesh-intelligence/boards/internal/cli"

func main() {
	cli.Execute()
}
