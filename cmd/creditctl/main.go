package main

import "ai-imagegen-be/internal/cli"

func main() {
	cli.Execute()
}
