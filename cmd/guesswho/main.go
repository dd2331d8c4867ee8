package main

import (
	"github.com/mcoot/guesswho-go/internal/cli"
)

func main() {
	cli.Execute()
}
