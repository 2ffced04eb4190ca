package main

import (
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/scott-cotton/cli"

	"github.com/boardkit/boardsync"
	"github.com/boardkit/boardsync/snapshot"
)

type watchConfig struct {
	*cli.Command
	Every string `cli:"name=every desc='capture interval, e.g. 5s'"`
	Limit int    `cli:"name=n desc='stop after this many captures (0 = forever)'"`
}

func watchCommand() *cli.Command {
	cfg := &watchConfig{Every: "2s"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "watch").
		WithSynopsis("watch -every <dur> <cmd> - diff successive captures of a command's output").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *watchConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		cfg.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: watch requires a command to run", cli.ErrUsage)
	}
	every, err := time.ParseDuration(cfg.Every)
	if err != nil {
		return fmt.Errorf("%w: invalid -every: %v", cli.ErrUsage, err)
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	last := &snapshot.Board{}
	for i := 0; cfg.Limit == 0 || i < cfg.Limit; i++ {
		next, err := capture(args[0], every)
		if err != nil {
			return err
		}
		list := boardsync.Diff(last, next)
		if len(list) > 0 {
			change := struct {
				At  string `json:"at"`
				Ops any    `json:"ops"`
			}{time.Now().Format(time.RFC3339Nano), list}
			if err := printJSON(cc.Out, change); err != nil {
				return err
			}
		}
		last = next
		<-ticker.C
	}
	return nil
}

func capture(command string, waitDelay time.Duration) (*snapshot.Board, error) {
	cmd := exec.Command("sh", "-c", command)
	r, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("unable to create pipe for command %q: %w", command, err)
	}
	cmd.WaitDelay = waitDelay
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("unable to start %q: %w", command, err)
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("command %q exited with an error: %w", command, err)
	}
	board, err := snapshot.Decode(d)
	if err != nil {
		return nil, fmt.Errorf("error decoding command output: %w", err)
	}
	return board, nil
}
