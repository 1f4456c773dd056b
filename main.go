package main

import "transit/cmd"

func main() {
	cmd.Execute()
}
