package main

import "github.com/strrl/style-dna/internal/cmd"

func main() {
	cmd.Execute()
}
