//go:build cli
// +build cli

package main

import (
	_ "vsdc.GO/custom"

	"vsdc.GO/cmd"
	"vsdc.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
