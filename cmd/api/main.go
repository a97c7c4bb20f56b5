package main

import (
	"os"

	"github.com/BruksfildServices01/barber-booking/internal/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
