package main

import (
	"os"

	"github.com/kiosk404/mahiro-adapter/internal/mahiroctl/cmd"
)

func main() {
	command := cmd.NewDefaultMahiroCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
