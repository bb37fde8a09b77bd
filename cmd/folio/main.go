// Command folio is the catalog discovery CLI.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/folio/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
