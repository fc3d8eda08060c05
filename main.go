package main

import (
	"os"

	"github.com/DengYangGong/YT-AISpider/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
