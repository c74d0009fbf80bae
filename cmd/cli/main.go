package main

import "veritaslab/cmd/cli/command"

func main() {
	command.Execute()
}
