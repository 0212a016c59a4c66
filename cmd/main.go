package main

import "github.com/canopy-network/canopy-amm/cmd/cli"

func main() {
	cli.Execute()
}
