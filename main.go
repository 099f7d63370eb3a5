package main

import "ssmenv/cmd"

func main() {
	cmd.Execute()
}
