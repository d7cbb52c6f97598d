package main

import "tapo-cli/cmd"

func main() {
	cmd.Execute()
}
