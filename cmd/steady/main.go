// Command steady probes a single element on a live page through the
// resilient handles, and validates steady configuration files.
//
//	steady probe --webdriver http://localhost:9515 --url https://example.com --css h1 --action text
//	steady probe --rod --stealth --url https://example.com --xpath '//a' --index 2 --action click
//	steady config check steady.yaml
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(1)
	}
}
