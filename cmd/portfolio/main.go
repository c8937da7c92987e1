// Command portfolio serves the site and provides a few maintenance commands.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
