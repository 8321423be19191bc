// Package hardware abstracts the microcontroller signal line: the inbound
// motion trigger and the outbound alarm/welcome commands. A serial
// implementation drives real hardware; a console implementation simulates
// it when no hardware is present.
package hardware

import (
	"context"
	"errors"
)

// Outbound command tokens understood by the microcontroller.
const (
	TokenAlarm   = "ALARM_ON"
	TokenWelcome = "WELCOME"
)

// TriggerMotion is the only recognized inbound trigger substring.
const TriggerMotion = "MOTION"

// ErrQuit is returned by a trigger source when the operator requests
// shutdown (simulated mode only).
var ErrQuit = errors.New("operator requested quit")

// Link sends commands to the alarm hardware. Sends are best-effort: a
// failure must never halt detection.
type Link interface {
	SendAlarm() error
	SendWelcome() error
}

// TriggerSource delivers motion triggers.
type TriggerSource interface {
	// NextTrigger blocks until a MOTION trigger arrives, the context is
	// canceled, or the operator quits (ErrQuit).
	NextTrigger(ctx context.Context) error
	// Drain discards triggers that piled up while a cycle was running, so
	// one physical approach causes one cycle.
	Drain()
}
