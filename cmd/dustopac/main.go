// Command dustopac is the CLI entrypoint for the optool-based dust opacity
// generator. All logic lives in the commands package and internal/.
package main

import (
	"os"

	"github.com/astrodust/dustopac/cmd/dustopac/commands"
)

func main() {
	os.Exit(commands.Execute())
}
