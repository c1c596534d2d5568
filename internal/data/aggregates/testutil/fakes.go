// Package testutil has fakes for driving aggregate failure paths without a failing database.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/coursehub-backend/internal/data/aggregates"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

// ScriptedRunner runs the body outside any transaction and then fails the commit of attempt i
// with Commit[i]; a nil entry, or an attempt past the script, commits. A non-nil Begin fails
// every attempt before the body runs.
type ScriptedRunner struct {
	mu sync.Mutex

	Begin  error
	Commit []error

	Attempts  int
	Commits   int
	Rollbacks int
}

var _ aggregates.TxRunner = (*ScriptedRunner)(nil)

func (r *ScriptedRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	attempt := r.Attempts
	r.Attempts++
	begin := r.Begin
	var commitErr error
	if attempt < len(r.Commit) {
		commitErr = r.Commit[attempt]
	}
	r.mu.Unlock()

	if begin != nil {
		return begin
	}
	err := fn(dbctx.Context{Ctx: ctx})
	if err == nil {
		err = commitErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.Rollbacks++
		return err
	}
	r.Commits++
	return nil
}

type HookKind string

const (
	HookObserve  HookKind = "observe"
	HookConflict HookKind = "conflict"
	HookRetry    HookKind = "retry"
)

type HookEvent struct {
	Kind   HookKind
	Op     string
	Status string
}

// RecordingHooks keeps every hook call in order.
type RecordingHooks struct {
	mu     sync.Mutex
	events []HookEvent
}

var _ aggregates.Hooks = (*RecordingHooks)(nil)

func (h *RecordingHooks) record(ev HookEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

func (h *RecordingHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.record(HookEvent{Kind: HookObserve, Op: name, Status: status})
}

func (h *RecordingHooks) IncConflict(name string) {
	h.record(HookEvent{Kind: HookConflict, Op: name})
}

func (h *RecordingHooks) IncRetry(name string) {
	h.record(HookEvent{Kind: HookRetry, Op: name})
}

// Events returns the calls of one kind, or all calls when kind is empty.
func (h *RecordingHooks) Events(kind HookKind) []HookEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HookEvent, 0, len(h.events))
	for _, ev := range h.events {
		if kind == "" || ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
