package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/boardkit/boardsync"
	"github.com/boardkit/boardsync/ops"
)

type applyConfig struct {
	*cli.Command
}

func applyCommand() *cli.Command {
	cfg := &applyConfig{}
	return cli.NewCommandAt(&cfg.Command, "apply").
		WithSynopsis("apply <snapshot> <ops> - apply an operation file to a snapshot").
		WithRun(cfg.run)
}

func (cfg *applyConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		cfg.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: apply requires 2 args, got %d", cli.ErrUsage, len(args))
	}
	board, err := getSnapshotFile(cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	list, err := getOpsFile(cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	res, err := boardsync.Apply(board, list)
	if err != nil {
		return err
	}
	return printJSON(cc.Out, res)
}

func getOpsFile(cc *cli.Context, path string) (ops.List, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	var list ops.List
	if err := json.Unmarshal(d, &list); err != nil {
		return nil, err
	}
	return list, nil
}
