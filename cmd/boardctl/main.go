package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

const usageText = `boardctl - board snapshot diff and apply tool

Usage:
  boardctl diff <old> <new>            Print the operations turning old into new
  boardctl apply <snapshot> <ops>      Apply an operation file to a snapshot
  boardctl watch -every <dur> <cmd>    Diff successive captures of a command's output

Snapshot arguments are JSON files, YAML files (.yaml/.yml), or - for stdin.

Examples:
  boardctl diff before.json after.json
  boardctl diff -select 'type startsWith "column:"' before.json after.json
  boardctl diff -json-patch before.json after.json
  boardctl diff -text before.yaml after.yaml
  boardctl apply board.json ops.json
  boardctl watch -every 5s 'curl -s localhost:8080/api/boards/1'`

func main() {
	cli.MainContext(context.Background(), root())
}

func root() *cli.Command {
	return cli.NewCommand("boardctl").
		WithSynopsis("boardctl - board snapshot diff and apply tool").
		WithDescription(usageText).
		WithSubs(
			diffCommand(),
			applyCommand(),
			watchCommand(),
		)
}
