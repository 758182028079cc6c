package main

import "go.pagestore/internal/cli"

func main() {
	cli.Execute()
}
