package main

import "cash-flow/cmd"

func main() {
	cmd.Execute()
}
