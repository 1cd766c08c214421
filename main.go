package main

import "github.com/productdevbook/portwatch/cmd"

func main() {
	cmd.Execute()
}
