// Package oplog keeps an in-memory, append-only log of board operation
// lists with optimistic-concurrency revisions.  It is the local side of
// the synchronization contract: a writer diffs against the revision it
// last saw and appends the result; a stale writer is rejected and must
// re-capture and re-diff rather than have its operations merged.
package oplog

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/boardkit/boardsync"
	"github.com/boardkit/boardsync/ops"
	"github.com/boardkit/boardsync/snapshot"
)

// ErrRevisionMismatch reports an append against a revision that is no
// longer the head.
var ErrRevisionMismatch = errors.New("revision mismatch")

// Entry is one appended operation list.  Rev is the revision the log
// reached by applying it; the base snapshot is revision 0.
type Entry struct {
	Rev int64     `json:"rev"`
	At  time.Time `json:"at"`
	Ops ops.List  `json:"ops"`
}

// Log is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	base    *snapshot.Board
	head    *snapshot.Board
	entries []Entry
}

// New starts a log at revision 0 with a copy of base.
func New(base *snapshot.Board) *Log {
	return &Log{
		base: base.Clone(),
		head: base.Clone(),
	}
}

// Rev returns the head revision.
func (l *Log) Rev() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return int64(len(l.entries))
}

// Append appends list on top of parentRev and returns the new head
// revision.  When parentRev is not the head revision the append is
// rejected with ErrRevisionMismatch, and when the operations do not
// apply cleanly to the head snapshot nothing is appended.
func (l *Log) Append(parentRev int64, list ops.List) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	head := int64(len(l.entries))
	if parentRev != head {
		return 0, fmt.Errorf("%w: log at %d, append against %d", ErrRevisionMismatch, head, parentRev)
	}
	next, err := boardsync.Apply(l.head, list)
	if err != nil {
		return 0, fmt.Errorf("rejecting append: %w", err)
	}
	l.head = next
	l.entries = append(l.entries, Entry{
		Rev: head + 1,
		At:  time.Now(),
		Ops: list,
	})
	return head + 1, nil
}

// Since returns copies of the entries after rev, oldest first, for a
// replica catching up from rev.
func (l *Log) Since(rev int64) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rev < 0 {
		rev = 0
	}
	if rev >= int64(len(l.entries)) {
		return nil
	}
	res := make([]Entry, len(l.entries)-int(rev))
	copy(res, l.entries[rev:])
	return res
}

// Head returns the head revision and a copy of the board at it.
func (l *Log) Head() (int64, *snapshot.Board) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return int64(len(l.entries)), l.head.Clone()
}

// Base returns a copy of the revision-0 board.
func (l *Log) Base() *snapshot.Board {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.base.Clone()
}

// Replay rebuilds the board at rev from the base snapshot by applying
// entries in order.  It exists so consumers of a persisted log can
// verify it independently of the cached head.
func (l *Log) Replay(rev int64) (*snapshot.Board, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rev < 0 || rev > int64(len(l.entries)) {
		return nil, fmt.Errorf("no revision %d, log at %d", rev, len(l.entries))
	}
	b := l.base.Clone()
	for _, e := range l.entries[:rev] {
		next, err := boardsync.Apply(b, e.Ops)
		if err != nil {
			return nil, fmt.Errorf("replaying revision %d: %w", e.Rev, err)
		}
		b = next
	}
	return b, nil
}
