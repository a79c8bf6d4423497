// Package main is the meshindex command.
package main

import (
	"log"
	"os"

	sculptcli "go.viam.com/sculpt/cli"
)

func main() {
	if err := sculptcli.NewApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
