package main

import (
	"github.com/pfrederiksen/wevity-contests/internal/cli"
)

func main() {
	cli.Execute()
}
