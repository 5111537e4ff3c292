package main

import "checklocales/internal/cli"

func main() {
	cli.Execute()
}
