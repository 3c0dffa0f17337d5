package main

import "go-vacancy-enricher/internal/cli"

func main() {
	cli.Execute()
}
