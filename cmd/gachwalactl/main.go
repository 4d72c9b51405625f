package main

import "github.com/gachwala/storefront/cmd/gachwalactl/commands"

func main() {
	commands.Execute()
}
