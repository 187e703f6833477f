package main

import "github.com/vibedrift/vibedrift/cmd"

func main() {
	cmd.Execute()
}
