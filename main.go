package main

import "convoscope/cmd"

func main() {
	cmd.Execute()
}
