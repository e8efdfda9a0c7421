package main

import "github.com/beledshul/sponsorship/cmd"

func main() {
	cmd.Execute()
}
