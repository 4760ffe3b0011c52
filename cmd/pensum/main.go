package main

import "github.com/openswoop/pensum/cmd"

func main() {
	cmd.Execute()
}
