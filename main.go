package main

import "github.com/americanbox/americanbox-api/commands"

func main() {
	commands.Execute()
}
