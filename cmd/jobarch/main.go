// Command jobarch queries the job architecture taxonomy, org chart and infographic
// decks from the command line using the same configuration as the server.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
