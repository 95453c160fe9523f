package main

import "github.com/pseudomancer/pseudomancer/internal/cli"

func main() {
	cli.Execute()
}
