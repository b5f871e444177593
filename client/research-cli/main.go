package main

import "ResearchHub/client/research-cli/cmd"

func main() {
	cmd.Execute()
}
