package main

import "github.com/emiliopalmerini/sprintsheet/internal/cli"

func main() {
	cli.Execute()
}
