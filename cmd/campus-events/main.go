package main

import (
	"fmt"
	"os"
)

const usage = `usage: campus-events <command> [flags]

commands:
  serve    run the HTTP API (default)
  watch    follow one event request and print its notifications
  token    sign a development bearer token
`

func main() {

	err := os.Setenv("TZ", "UTC")
	if err != nil {
		panic(err)
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return serveCommand(args)
	case "watch":
		return watchCommand(args)
	case "token":
		return tokenCommand(args)
	case "help":
		fmt.Fprint(os.Stderr, usage)
		return nil
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", command)
}
