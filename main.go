package main

import "github.com/jsphweid/notetab/cmd"

func main() {
	cmd.Execute()
}
