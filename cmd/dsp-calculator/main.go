package main

import "github.com/andrescamacho/dsp-calculator/internal/adapters/cli"

func main() {
	cli.Execute()
}
