package main

import (
	"github.com/leeroo-ai/leeroo/internal/cli"
)

func main() {
	cli.Execute()
}
