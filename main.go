package main

import "premarket-screener/internal/cli"

func main() {
	cli.Execute()
}
