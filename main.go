package main

import "github.com/cmyui/remove-unused-imports-py/cmd"

func main() {
	cmd.Execute()
}
