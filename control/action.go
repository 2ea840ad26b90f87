package control

import (
	"github.com/rustyeddy/harvester/engine"
)

// Action is one of the irreversible operations an operator can issue.
type Action int

const (
	StartPaper Action = iota
	StartLive
	Stop
	EmergencyFlatten
)

func (a Action) String() string {
	switch a {
	case StartPaper:
		return "start-paper"
	case StartLive:
		return "start-live"
	case Stop:
		return "stop"
	case EmergencyFlatten:
		return "emergency-flatten"
	default:
		return "unknown"
	}
}

// RequiresConfirmation reports whether the action must pass through the
// PendingConfirmation state before its remote call is issued. Starting
// live trading risks real money; flattening destroys an existing
// position. Paper start and stop go straight to in-flight.
func (a Action) RequiresConfirmation() bool {
	return a == StartLive || a == EmergencyFlatten
}

// LegalFor reports whether the action makes sense against the latest
// known engine state. Start actions need to know the engine is not
// already running, so they are illegal without a snapshot. Stop and
// flatten are safety actions and are never blocked by missing data; the
// engine itself rejects them when nothing is running.
func (a Action) LegalFor(snap engine.StatusSnapshot, known bool) bool {
	switch a {
	case StartPaper, StartLive:
		return known && !snap.Running
	case Stop, EmergencyFlatten:
		return true
	default:
		return false
	}
}
