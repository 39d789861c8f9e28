// Package main provides the entry point for the newtonring CLI.
//
// newtonring measures the radius of curvature of a lens from a Newton
// rings interferogram: it locates the ring center, extracts the dark
// fringes, fits r² against the fringe order and reports the result as
// JSON, Markdown and diagnostic figures.
//
// Usage:
//
//	newtonring measure image.png
//	newtonring measure --config bench.yaml --outdir runs/today image.png
//
// See --help for all available options.
package main

// main is the entry point for newtonring.
func main() {
	Execute()
}
