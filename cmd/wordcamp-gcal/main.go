package main

import "github.com/andrasguseo/wordcamp-gcal/internal/cli"

func main() {
	cli.Execute()
}
