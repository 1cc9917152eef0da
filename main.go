package main

import "github.com/hookwright/hookwright/cmd"

func main() {
	cmd.Execute()
}
