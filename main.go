package main

import (
	"os"

	"github.com/PolarWolf314/frontcrypt/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
