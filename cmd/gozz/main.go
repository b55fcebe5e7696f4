package main

import (
	"github.com/openrig/gozz/cmd/gozz/cmd"
)

func main() {
	cmd.Execute()
}
