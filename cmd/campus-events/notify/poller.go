// Package notify delivers one-time approval and remark notifications to the
// faculty member who owns an event request, by polling its state.
//
// A Watch follows a single request. Each tick fetches the request; an
// unseen remark is surfaced once, marked as notified and ends the watch; an
// approval is surfaced once and ends the watch. Anything else waits for the
// next tick. Notifications are never duplicated within a watch, but a
// transition that happens while no watch is running is not replayed.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"campus-events-backend/cmd/campus-events/lifecycle"
	"campus-events-backend/cmd/campus-events/model"
)

const DefaultInterval = 2 * time.Second

// Source is the read side of the lifecycle engine as seen by a watcher.
type Source interface {
	FetchRequest(ctx context.Context, id string) (*model.EventRequest, error)
	MarkRemarkNotified(ctx context.Context, id string) error
}

type Kind int

const (
	KindRemark Kind = iota + 1
	KindApproved
)

func (k Kind) String() string {
	switch k {
	case KindRemark:
		return "remark"
	case KindApproved:
		return "approved"
	}
	return "unknown"
}

type Notification struct {
	Kind      Kind
	RequestID string
	Title     string
	Remark    string
}

func (n Notification) String() string {
	switch n.Kind {
	case KindRemark:
		return fmt.Sprintf("Admin left a remark on %q: %s", n.Title, n.Remark)
	case KindApproved:
		if n.Remark != "" {
			return fmt.Sprintf("Your event request %q has been approved (remark: %s)", n.Title, n.Remark)
		}
		return fmt.Sprintf("Your event request %q has been approved", n.Title)
	}
	return "notification for " + n.RequestID
}

type StopReason int

const (
	Running StopReason = iota
	StopCancelled
	StopRemark
	StopApproved
	StopRejected
	StopNotFound
	StopForbidden
)

func (r StopReason) String() string {
	switch r {
	case Running:
		return "running"
	case StopCancelled:
		return "cancelled"
	case StopRemark:
		return "remark delivered"
	case StopApproved:
		return "approval delivered"
	case StopRejected:
		return "request rejected"
	case StopNotFound:
		return "request not found"
	case StopForbidden:
		return "access denied"
	}
	return "unknown"
}

type Poller struct {
	source   Source
	interval time.Duration
	refresh  func(context.Context)
	logger   *slog.Logger
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithRefresh registers a hook run after an approval has been delivered,
// typically to reload the public event listing.
func WithRefresh(fn func(context.Context)) Option {
	return func(p *Poller) { p.refresh = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

func NewPoller(source Source, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Watch is a running poll loop for one request.
type Watch struct {
	requestID string
	cancel    context.CancelFunc
	done      chan struct{}

	mu        sync.Mutex
	cancelled bool
	fired     bool
	reason    StopReason
}

// Start begins watching requestID. The first poll happens one interval
// after Start. onNotify runs on the watch goroutine at most once.
func (p *Poller) Start(ctx context.Context, requestID string, onNotify func(Notification)) *Watch {
	ctx, cancel := context.WithCancel(ctx)
	w := &Watch{
		requestID: requestID,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go p.run(ctx, w, onNotify)
	return w
}

// Cancel stops the watch. A fetch still in flight when Cancel is called
// never produces a notification. Cancel does not wait; use Done for that.
func (w *Watch) Cancel() {
	w.mu.Lock()
	w.cancelled = true
	w.mu.Unlock()
	w.cancel()
}

func (w *Watch) Done() <-chan struct{} {
	return w.done
}

func (w *Watch) RequestID() string {
	return w.requestID
}

// Reason reports why the watch ended, or Running.
func (w *Watch) Reason() StopReason {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reason
}

func (w *Watch) isCancelled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancelled
}

func (w *Watch) deliver(onNotify func(Notification), n Notification) bool {
	w.mu.Lock()
	if w.cancelled || w.fired {
		w.mu.Unlock()
		return false
	}
	w.fired = true
	w.mu.Unlock()

	onNotify(n)
	return true
}

func (w *Watch) finish(reason StopReason) {
	w.mu.Lock()
	w.reason = reason
	w.mu.Unlock()
	w.cancel()
	close(w.done)
}

func (p *Poller) run(ctx context.Context, w *Watch, onNotify func(Notification)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.finish(StopCancelled)
			return
		case <-ticker.C:
		}

		if reason := p.tick(ctx, w, onNotify); reason != Running {
			p.logger.DebugContext(ctx, "watch ended", "request_id", w.requestID, "reason", reason.String())
			w.finish(reason)
			return
		}
	}
}

func (p *Poller) tick(ctx context.Context, w *Watch, onNotify func(Notification)) StopReason {
	rec, err := p.source.FetchRequest(ctx, w.requestID)
	if w.isCancelled() || ctx.Err() != nil {
		return StopCancelled
	}
	if err != nil {
		var guardErr *lifecycle.GuardError
		switch {
		case errors.Is(err, lifecycle.ErrNotFound):
			return StopNotFound
		case errors.As(err, &guardErr):
			p.logger.WarnContext(ctx, "watch refused", "request_id", w.requestID, "error", err)
			return StopForbidden
		}
		p.logger.DebugContext(ctx, "poll failed, retrying next tick", "request_id", w.requestID, "error", err)
		return Running
	}

	switch {
	case rec.UnseenRemark():
		n := Notification{Kind: KindRemark, RequestID: rec.ID, Title: rec.Title, Remark: rec.Remark}
		if !w.deliver(onNotify, n) {
			return StopCancelled
		}
		if err := p.source.MarkRemarkNotified(ctx, rec.ID); err != nil {
			p.logger.WarnContext(ctx, "mark remark notified failed", "request_id", rec.ID, "error", err)
		}
		// TODO: decide whether a remark should end the watch. An approval
		// that follows a remark is currently not announced.
		return StopRemark

	case rec.Status == model.Approved:
		n := Notification{Kind: KindApproved, RequestID: rec.ID, Title: rec.Title, Remark: rec.Remark}
		if !w.deliver(onNotify, n) {
			return StopCancelled
		}
		if p.refresh != nil {
			p.refresh(ctx)
		}
		return StopApproved

	case rec.Status == model.Rejected:
		return StopRejected
	}
	return Running
}
