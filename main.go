package main

import "github.com/doorwarden/doorwarden/cmd"

func main() {
	cmd.Execute()
}
