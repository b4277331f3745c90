package main

import "skatelog/trainlog/cmd"

func main() {
	cmd.Execute()
}
