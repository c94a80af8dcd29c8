// Command elemdoc generates the reference documentation of optical element
// types: sample and reference-frame images plus one Markdown page per type.
package main

import "github.com/mesh-intelligence/elemdoc/internal/cli"

func main() {
	cli.Execute()
}
