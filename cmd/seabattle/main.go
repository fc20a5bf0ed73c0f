// Command seabattle runs the sea battle server and inspects running ones.
package main

import "github.com/mcoot/seabattle-go/internal/cli"

func main() {
	cli.Execute()
}
