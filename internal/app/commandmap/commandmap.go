package commandmap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ska-mid/dish-manager-core/internal/app/compstate"
	"github.com/ska-mid/dish-manager-core/internal/app/crash"
	"github.com/ska-mid/dish-manager-core/internal/app/dishmode"
	"github.com/ska-mid/dish-manager-core/internal/app/rpc"
	"github.com/ska-mid/dish-manager-core/internal/app/tracker"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// Engine fans a high-level command out into an ordered sequence of
// per-child sub-commands and tracks the result via the LRC tracker.
type Engine struct {
	graph    *dishmode.Graph
	trk      tracker.Tracker
	children Children
	hooks    Hooks
	snapshot SnapshotFunc
	timeout  time.Duration
	log      logger.Logger

	plans map[string]plan

	notifyMu sync.Mutex
	notifyCh chan struct{}

	abortMu sync.Mutex
	abortCh chan struct{}
}

// New creates a fan-out Engine. timeout bounds how long a queued fan-out
// waits for its plan's awaited predicate before reporting ABORTED.
func New(graph *dishmode.Graph, trk tracker.Tracker, children Children, hooks Hooks, snapshot SnapshotFunc, timeout time.Duration, log logger.Logger) *Engine {
	return &Engine{
		graph:    graph,
		trk:      trk,
		children: children,
		hooks:    hooks,
		snapshot: snapshot,
		timeout:  timeout,
		log:      log,
		plans:    buildPlans(),
		notifyCh: make(chan struct{}),
		abortCh:  make(chan struct{}),
	}
}

// NotifyStateChanged wakes every fan-out currently waiting on an awaited
// predicate so it re-evaluates against the latest Snapshot. Called by the
// component manager after every aggregation recomputation.
func (e *Engine) NotifyStateChanged() {
	e.notifyMu.Lock()
	old := e.notifyCh
	e.notifyCh = make(chan struct{})
	e.notifyMu.Unlock()

	close(old)
}

func (e *Engine) waitChan() <-chan struct{} {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	return e.notifyCh
}

// TriggerAbort marks every fan-out currently in flight as aborted. Called by
// the abort sequencer and by StopCommunicating.
func (e *Engine) TriggerAbort() {
	e.abortMu.Lock()
	defer e.abortMu.Unlock()

	select {
	case <-e.abortCh:
	default:
		close(e.abortCh)
	}
}

// ResetAbort clears the abort signal so future Execute calls are not
// immediately aborted. Called by the Abort sequencer right after its own
// TriggerAbort, and by StartCommunicating after a StopCommunicating.
func (e *Engine) ResetAbort() {
	e.abortMu.Lock()
	defer e.abortMu.Unlock()

	select {
	case <-e.abortCh:
		e.abortCh = make(chan struct{})
	default:
	}
}

func (e *Engine) abortSignal() <-chan struct{} {
	e.abortMu.Lock()
	defer e.abortMu.Unlock()

	return e.abortCh
}

// AbortSignal exposes the shared abort channel to the abort sequencer,
// which must check it between its own steps without going through
// awaitPredicate.
func (e *Engine) AbortSignal() <-chan struct{} {
	return e.abortSignal()
}

// Execute validates req's argument shape synchronously, then queues the fan
// out and returns immediately with the allocated LRC id.
func (e *Engine) Execute(ctx context.Context, name string, arg interface{}) (rpc.ResultCode, string) {
	if err := validateArity(name, arg); err != nil {
		return rpc.ResultRejected, err.Error()
	}

	id := e.trk.NewCommand(name)

	go e.run(ctx, id, Request{Name: name, Arg: arg})

	return rpc.ResultQueued, id
}

func (e *Engine) run(ctx context.Context, id string, req Request) {
	defer func() {
		if r := recover(); r != nil {
			crash.Capture("COMMANDMAP", r)

			if e.log != nil {
				e.log.Error().Msgf("command map panic running %s: %v", req.Name, r)
			}

			e.fail(id, fmt.Sprintf("%s failed: internal error", req.Name))
		}
	}()

	snap := e.snapshot()

	if reason, ok := e.rejected(snap, req); ok {
		e.reject(id, reason)
		return
	}

	inProgress := tracker.StatusInProgress
	_ = e.trk.Update(id, &inProgress, "", nil)

	p, hasPlan := e.plans[req.Name]

	switch req.Name {
	case "Scan":
		scanID, _ := req.Arg.(string)
		if e.hooks.SetScanID != nil {
			e.hooks.SetScanID(scanID)
		}
	case "EndScan":
		if e.hooks.SetScanID != nil {
			e.hooks.SetScanID("")
		}
	}

	if !hasPlan {
		e.complete(id, req.Name+" completed")
		return
	}

	if p.configureSequence && e.hooks.BeginConfigureSequence != nil {
		e.hooks.BeginConfigureSequence()
		defer e.hooks.EndConfigureSequence()
	}

	if len(p.steps) > 0 {
		_ = e.trk.Update(id, nil, fanOutProgress(p.steps), nil)
	}

	for _, st := range p.steps {
		if st.ignoredBy != nil && st.ignoredBy(e.snapshot()) {
			_ = e.trk.Update(id, nil, fmt.Sprintf("%s device is disabled. %s call ignored", deviceLabel(st.device), st.command), nil)
			continue
		}

		status, msg := e.dispatch(ctx, st, req)
		if status == tracker.StatusFailed {
			e.fail(id, fmt.Sprintf("%s failed: %s failed: %s", req.Name, st.label(), msg))
			return
		}

		if st.awaiting != "" {
			_ = e.trk.Update(id, nil, "Awaiting "+st.awaiting, nil)
		}

		_ = e.trk.Update(id, nil, st.label()+" completed", nil)
	}

	if p.awaiting != nil {
		if msg := p.awaiting(req); msg != "" {
			_ = e.trk.Update(id, nil, "Awaiting "+msg, nil)
		}
	}

	if e.awaitPredicate(ctx, p, req) {
		e.complete(id, req.Name+" completed")
		return
	}

	aborted := tracker.StatusAborted
	_ = e.trk.Update(id, &aborted, "", &tracker.Result{Code: rpc.ResultAborted, Message: req.Name + " Aborted"})
}

func (e *Engine) dispatch(ctx context.Context, st step, req Request) (tracker.TaskStatus, string) {
	mgr := e.children.get(st.device)
	if mgr == nil {
		return tracker.StatusFailed, "no manager for device " + st.device
	}

	var arg interface{}
	if st.argFn != nil {
		arg = st.argFn(req)
	}

	if st.writeName != nil {
		if err := mgr.WriteAttributeValue(ctx, st.writeName(req), arg); err != nil {
			return tracker.StatusFailed, err.Error()
		}

		return tracker.StatusInProgress, ""
	}

	return mgr.ExecuteCommand(ctx, st.command, arg)
}

// awaitPredicate blocks until p's awaited predicate holds against the latest
// Snapshot, the shared abort signal fires, the LRC timeout elapses, or ctx
// is cancelled. Returns false in every non-success case.
func (e *Engine) awaitPredicate(ctx context.Context, p plan, req Request) bool {
	if p.awaited == nil {
		return true
	}

	deadline := time.NewTimer(e.timeout)
	defer deadline.Stop()

	for {
		// Subscribe before evaluating so a notification landing between the check
		// and the select is never missed.
		wait := e.waitChan()

		if p.awaited(e.snapshot(), req) {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-e.abortSignal():
			return false
		case <-deadline.C:
			return false
		case <-wait:
		}
	}
}

// rejected evaluates the is-allowed predicate: the dish-mode graph, the
// command's extraCheck (e.g. SetOperateMode's configured-band requirement),
// and the communication-disabled rule.
func (e *Engine) rejected(snap Snapshot, req Request) (string, bool) {
	if e.commDisabled(snap) {
		return "communication with device is disabled", true
	}

	if e.graph != nil && !e.graph.IsAllowed(snap.DishMode, req.Name) {
		return "Command is not allowed", true
	}

	if p, ok := e.plans[req.Name]; ok && p.extraCheck != nil {
		if err := p.extraCheck(snap, req); err != nil {
			return err.Error(), true
		}
	}

	return "", false
}

func (e *Engine) commDisabled(snap Snapshot) bool {
	if snap.DSConn == compstate.CommunicationDisabled {
		return true
	}

	if !snap.IgnoreSPF && snap.SPFConn == compstate.CommunicationDisabled {
		return true
	}

	if !snap.IgnoreSPFRX && snap.SPFRXConn == compstate.CommunicationDisabled {
		return true
	}

	return false
}

func (e *Engine) reject(id, message string) {
	status := tracker.StatusRejected
	_ = e.trk.Update(id, &status, "", &tracker.Result{Code: rpc.ResultRejected, Message: message})
}

func (e *Engine) fail(id, message string) {
	status := tracker.StatusFailed
	_ = e.trk.Update(id, &status, "", &tracker.Result{Code: rpc.ResultFailed, Message: message})
}

// complete records the final message in the progress stream as well as the
// result, so clients following longRunningCommandProgress see the same
// closing line the result carries.
func (e *Engine) complete(id, message string) {
	status := tracker.StatusCompleted
	_ = e.trk.Update(id, &status, message, &tracker.Result{Code: rpc.ResultOK, Message: message})
}

func fanOutProgress(steps []step) string {
	msg := "Fanned out commands: "

	for i, st := range steps {
		if i > 0 {
			msg += ", "
		}

		msg += st.label()
	}

	return msg
}
