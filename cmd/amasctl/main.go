// Command amasctl is the AMAS engine's operator CLI: simulate, inspect,
// and serve.
package main

import (
	"fmt"
	"os"

	"github.com/tutu-network/amas/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
