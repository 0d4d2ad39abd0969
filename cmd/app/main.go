package main

import (
	"os"

	"github.com/labstack/gommon/log"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		log.Fatal(err)
	}
}
