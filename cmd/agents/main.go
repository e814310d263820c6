package main

import "github.com/nexusqa/agents/internal/cli"

func main() {
	cli.Execute()
}
