// The planner command runs the capacity planning service and a few
// one-shot calendar utilities.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
