package main

import "github.com/serh11pashkov/resumebuilder/internal/cli"

func main() {
	cli.Execute()
}
