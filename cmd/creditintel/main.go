package main

import (
	"github.com/dyike/CreditIntel/internal/cli"
)

func main() {
	cli.Run()
}
