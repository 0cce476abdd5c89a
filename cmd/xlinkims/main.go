// XLinkIMS - Cross-link search for LC-IMS-MS data
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/XLinkIMS/cmd/xlinkims/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
