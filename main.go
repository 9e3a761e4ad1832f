package main

import "agent-staffing/cli"

func main() {
	cli.Execute()
}
