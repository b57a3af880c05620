// Command reproto is a thin debugging front-end over the parsing core: it
// exists to give the core a runnable home, not to be the production
// driver (that's explicitly out of scope — see the core's docs).
package main

import (
	"fmt"
	"os"

	"github.com/aurora/reproto/cmd/reproto/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
