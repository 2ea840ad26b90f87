// Package control gates the console's irreversible actions. Every
// mutating call to the engine goes through one Machine, which enforces
// explicit confirmation for dangerous actions and at most one action in
// flight system-wide. The engine's endpoints are not idempotent, so this
// is the client-side guard against double submission.
package control

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/harvester/engine"
	"github.com/rustyeddy/harvester/pkg/id"
)

// ErrBusy rejects a request while another action is pending confirmation
// or in flight. Rapid repeated clicks land here instead of at the engine.
var ErrBusy = errors.New("another control action is pending or in flight")

// ErrNoPending rejects a confirm or cancel with nothing awaiting it.
var ErrNoPending = errors.New("no action is awaiting confirmation")

// ErrWrongConfirmation rejects a confirm naming a different action than
// the pending one. Confirmation is action-specific: a confirm meant for
// a live start can never release an emergency flatten.
var ErrWrongConfirmation = errors.New("confirmation does not match the pending action")

// State of the machine. Success and failure of the remote call both
// return to Idle; there is no retry state because mutating actions are
// never retried automatically.
type State int

const (
	Idle State = iota
	PendingConfirmation
	InFlight
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingConfirmation:
		return "pending-confirmation"
	case InFlight:
		return "in-flight"
	default:
		return "unknown"
	}
}

// ActionClient issues the mutating engine calls. *engine.Client
// satisfies it.
type ActionClient interface {
	Start(ctx context.Context, req engine.StartRequest) (engine.Ack, error)
	Stop(ctx context.Context) (engine.Ack, error)
	EmergencyFlatten(ctx context.Context) (engine.Ack, error)
}

// Request is an operator's intent to perform an action.
type Request struct {
	Action Action
	// InitialCapital applies to start actions only; nil keeps the
	// engine's default.
	InitialCapital *float64
}

// Receipt describes a completed (issued and resolved) action.
type Receipt struct {
	// AttemptID uniquely identifies this submission in logs.
	AttemptID string
	// Message is the engine's acknowledgement text, if any.
	Message string
}

// Machine is the control action state machine. All state transitions
// happen inside its own methods; nothing mutates it externally.
type Machine struct {
	client ActionClient
	log    zerolog.Logger

	mu      sync.Mutex
	state   State
	pending Request
}

// NewMachine creates an idle machine issuing calls through client.
func NewMachine(client ActionClient, log zerolog.Logger) *Machine {
	return &Machine{
		client: client,
		log:    log,
		state:  Idle,
	}
}

// State returns the current machine state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending returns the action awaiting confirmation, if any.
func (m *Machine) Pending() (Action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != PendingConfirmation {
		return 0, false
	}
	return m.pending.Action, true
}

// Submit requests an action. For actions requiring confirmation it moves
// to PendingConfirmation and returns (nil, nil): no remote call happens
// until Confirm. Otherwise the call is issued immediately and Submit
// blocks until it resolves.
//
// While the machine is not Idle, Submit returns ErrBusy and has no
// side effects.
func (m *Machine) Submit(ctx context.Context, req Request) (*Receipt, error) {
	m.mu.Lock()
	if m.state != Idle {
		state := m.state
		m.mu.Unlock()
		m.log.Warn().Stringer("action", req.Action).Stringer("state", state).
			Msg("action rejected: machine busy")
		return nil, fmt.Errorf("%s: %w", req.Action, ErrBusy)
	}

	if req.Action.RequiresConfirmation() {
		m.state = PendingConfirmation
		m.pending = req
		m.mu.Unlock()
		m.log.Info().Stringer("action", req.Action).Msg("action awaiting confirmation")
		return nil, nil
	}

	m.state = InFlight
	m.mu.Unlock()

	return m.dispatch(ctx, req)
}

// Confirm releases the pending action iff it names the same action. The
// remote call is issued and Confirm blocks until it resolves.
func (m *Machine) Confirm(ctx context.Context, action Action) (*Receipt, error) {
	m.mu.Lock()
	if m.state != PendingConfirmation {
		m.mu.Unlock()
		return nil, ErrNoPending
	}
	if m.pending.Action != action {
		pending := m.pending.Action
		m.mu.Unlock()
		return nil, fmt.Errorf("confirmed %s while %s is pending: %w",
			action, pending, ErrWrongConfirmation)
	}

	req := m.pending
	m.state = InFlight
	m.pending = Request{}
	m.mu.Unlock()

	return m.dispatch(ctx, req)
}

// Cancel discards the pending action. No remote call is ever issued for
// a cancelled request.
func (m *Machine) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != PendingConfirmation {
		return ErrNoPending
	}
	m.log.Info().Stringer("action", m.pending.Action).Msg("pending action cancelled")
	m.state = Idle
	m.pending = Request{}
	return nil
}

// dispatch issues the remote call and resolves back to Idle. The
// returned error is the engine's verbatim failure; it is surfaced, never
// swallowed, and never retried here.
func (m *Machine) dispatch(ctx context.Context, req Request) (*Receipt, error) {
	attemptID := id.New()
	m.log.Info().Stringer("action", req.Action).Str("attempt_id", attemptID).
		Msg("issuing control action")

	ack, err := m.issue(ctx, req)

	m.mu.Lock()
	m.state = Idle
	m.mu.Unlock()

	if err != nil {
		m.log.Error().Err(err).Stringer("action", req.Action).Str("attempt_id", attemptID).
			Msg("control action failed")
		return nil, fmt.Errorf("%s: %w", req.Action, err)
	}

	m.log.Info().Stringer("action", req.Action).Str("attempt_id", attemptID).
		Str("engine_status", ack.Status).Msg("control action acknowledged")
	return &Receipt{AttemptID: attemptID, Message: ack.Message}, nil
}

func (m *Machine) issue(ctx context.Context, req Request) (engine.Ack, error) {
	switch req.Action {
	case StartPaper:
		return m.client.Start(ctx, engine.StartRequest{
			Mode:           "paper",
			InitialCapital: req.InitialCapital,
		})
	case StartLive:
		return m.client.Start(ctx, engine.StartRequest{
			Mode:           "live",
			InitialCapital: req.InitialCapital,
		})
	case Stop:
		return m.client.Stop(ctx)
	case EmergencyFlatten:
		return m.client.EmergencyFlatten(ctx)
	default:
		return engine.Ack{}, fmt.Errorf("unknown action %d", int(req.Action))
	}
}
