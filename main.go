package main

import "github.com/jsphweid/markovmidi/cmd"

func main() {
	cmd.Execute()
}
