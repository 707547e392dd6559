package main

import (
	"os"

	"github.com/scan-io-git/qgate/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
