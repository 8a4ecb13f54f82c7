package main

import "github.com/hearthpoints/hearth/internal/cli"

func main() {
	cli.Execute()
}
