package main

import "github.com/leeoohoo/chatos/cmd"

func main() {
	cmd.Execute()
}
