package main

import "github.com/tabgenius/tabgenius/cmd"

func main() {
	cmd.Execute()
}
