// cmd/tapec/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"tapec/cmd/tapec/commands"
)

const version = "0.1.0"

// commandAliases maps a one-letter shorthand to each command except
// bench, which has none.
var commandAliases = map[string]string{
	"r": "run",
	"b": "build",
	"e": "emit",
	"c": "cache",
	"w": "watch",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}
	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		fmt.Println("tapec " + version)
		return
	}

	var err error
	switch cmd {
	case "run":
		err = commands.RunCommand(args[1:])
	case "build":
		err = commands.BuildCommand(args[1:])
	case "emit":
		err = commands.EmitCommand(args[1:])
	case "cache":
		err = commands.CacheCommand(args[1:])
	case "watch":
		err = commands.WatchCommand(args[1:])
	case "bench":
		err = commands.BenchCommand(args[1:])
	default:
		showUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("tapec: %v", err)
	}
}

func showUsage() {
	fmt.Println(`tapec - an optimizing tape-machine compiler

Usage:
  tapec run [-raw] <file>                 interpret a program
  tapec emit -backend <name> [-m n] <file> emit target text for one backend
  tapec build [-m n] [-stats] <file>      emit every backend to -o dir
  tapec cache lookup ... <file>           inspect a build cache entry
  tapec watch [-addr host:port] <file>    serve live PassStat events
  tapec bench <file>                      compare raw vs optimized eval

Backends: c, x86-64, riscv64, llvm
Aliases: r=run b=build e=emit c=cache w=watch`)
}
