package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	if os.Args[1] == "--version" {
		fmt.Println(versionLine())
		os.Exit(0)
	}

	switch os.Args[1] {
	case "serve":
		os.Exit(serveCmd(os.Args[2:]))
	case "shuffle":
		os.Exit(shuffleCmd(os.Args[2:], os.Stdout, os.Stderr))
	case "roster":
		os.Exit(rosterCmd(os.Args[2:], os.Stdout, os.Stderr))
	case "version":
		fmt.Println(versionLine())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ironrun

Tracks an iron-man run: every character in the roster, in a shuffled order,
one after another.

Usage:
  ironrun <command> [flags]

Commands:
  serve        Serve run commands as JSON lines on stdin/stdout
  shuffle      Print a deterministic shuffle of names or indices
  roster       Validate and print the active roster
  version      Show the version
  help         Show this message

Examples:
  # Host for a UI process
  ironrun serve -config .ironrun/config.json

  # Reproduce the order of a run started with seed 42
  ironrun shuffle -seed 42 Kragg Ranno Etalus

Run 'ironrun <command> -h' for details.`)
}
