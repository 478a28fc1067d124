// Command systerm runs the System Termination simulation batch job.
package main

import "systerm/internal/cli"

func main() {
	cli.Execute()
}
