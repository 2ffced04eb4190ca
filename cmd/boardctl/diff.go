package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/boardkit/boardsync"
	"github.com/boardkit/boardsync/ops"
)

type diffConfig struct {
	*cli.Command
	Select    string `cli:"name=select desc='keep only operations matching this expression'"`
	Text      bool   `cli:"name=text desc='render a colored text diff instead of operations'"`
	JSONPatch bool   `cli:"name=json-patch desc='emit an RFC 6902 patch against the old snapshot'"`
}

func diffCommand() *cli.Command {
	cfg := &diffConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "diff").
		WithSynopsis("diff <old> <new> - print operations turning old into new").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *diffConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		cfg.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %d", cli.ErrUsage, len(args))
	}
	oldBoard, err := getSnapshotFile(cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	newBoard, err := getSnapshotFile(cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	list := boardsync.Diff(oldBoard, newBoard)
	if cfg.Select != "" {
		list, err = ops.Filter(list, cfg.Select)
		if err != nil {
			return err
		}
	}
	switch {
	case cfg.Text:
		if err := renderText(cc.Out, oldBoard, newBoard); err != nil {
			return err
		}
	case cfg.JSONPatch:
		patch, err := ops.ToJSONPatch(oldBoard, list)
		if err != nil {
			return err
		}
		if err := printJSON(cc.Out, patch); err != nil {
			return err
		}
	default:
		if err := printJSON(cc.Out, list); err != nil {
			return err
		}
	}
	if len(list) > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	d = append(d, '\n')
	_, err = w.Write(d)
	return err
}
