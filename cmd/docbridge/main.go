package main

import (
	"os"

	"github.com/docbridge/docbridge/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
