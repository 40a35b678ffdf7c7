package main

import "github.com/lexatlas/lexatlas/internal/interfaces/cli"

func main() {
	cli.Execute()
}
