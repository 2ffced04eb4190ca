package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/boardkit/boardsync/snapshot"
)

// renderText writes a character-level diff of the two snapshots'
// canonical documents, insertions green and deletions red.  Color is
// dropped when the writer is not a terminal.
func renderText(w io.Writer, old, new *snapshot.Board) error {
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		color.NoColor = true
	}
	a, err := indented(old)
	if err != nil {
		return err
	}
	b, err := indented(new)
	if err != nil {
		return err
	}
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(a, b, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	ins := color.New(color.FgGreen).SprintFunc()
	del := color.New(color.FgRed, color.CrossedOut).SprintFunc()
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			fmt.Fprint(w, ins(d.Text))
		case diffpatch.DiffDelete:
			fmt.Fprint(w, del(d.Text))
		case diffpatch.DiffEqual:
			fmt.Fprint(w, d.Text)
		}
	}
	fmt.Fprintln(w)
	return nil
}

func indented(b *snapshot.Board) (string, error) {
	d, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", err
	}
	return string(d), nil
}
