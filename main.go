// Package main provides the entry point for drawbot.
package main

import (
	"log"
	"os"

	"drawbot/internal/cli"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
