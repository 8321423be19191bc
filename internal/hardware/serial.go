package hardware

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.bug.st/serial"
)

// readTimeout bounds single serial reads so trigger waits can observe
// context cancellation.
const readTimeout = 500 * time.Millisecond

// SerialLink is the hardware signal line over a serial port. It is both a
// Link (outbound commands) and a TriggerSource (inbound MOTION lines).
type SerialLink struct {
	port     serial.Port
	name     string
	degraded bool // a send failed; later sends stay best-effort and quiet
	pending  []byte
}

// OpenSerial opens the serial line. Failure here means LinkUnavailable:
// the caller falls back to simulated mode.
func OpenSerial(portName string, baud int) (*SerialLink, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("configuring serial port %s: %w", portName, err)
	}

	// Allow time for microcontroller reset after the port opens.
	time.Sleep(2 * time.Second)

	return &SerialLink{port: port, name: portName}, nil
}

// NextTrigger reads lines off the serial port until one contains MOTION.
func (s *SerialLink) NextTrigger(ctx context.Context) error {
	buf := make([]byte, 128)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := s.port.Read(buf)
		if err != nil {
			return fmt.Errorf("serial read: %w", err)
		}

		for _, b := range buf[:n] {
			if b != '\n' {
				s.pending = append(s.pending, b)
				continue
			}
			line := strings.TrimSpace(string(s.pending))
			s.pending = s.pending[:0]
			if line == "" {
				continue
			}
			log.Printf("serial received: %s", line)
			if strings.Contains(line, TriggerMotion) {
				return nil
			}
		}
	}
}

// Drain clears buffered input so triggers received mid-cycle do not cause
// an immediate repeat cycle.
func (s *SerialLink) Drain() {
	s.pending = s.pending[:0]
	if err := s.port.ResetInputBuffer(); err != nil {
		log.Printf("serial input buffer reset failed: %v", err)
	}
}

func (s *SerialLink) SendAlarm() error {
	return s.send(TokenAlarm)
}

func (s *SerialLink) SendWelcome() error {
	return s.send(TokenWelcome)
}

// send writes a command token. A write failure downgrades the link to
// best-effort: it is logged once and never propagated, since hardware
// absence must not halt detection.
func (s *SerialLink) send(token string) error {
	if _, err := s.port.Write([]byte(token + "\n")); err != nil {
		if !s.degraded {
			log.Printf("serial write failed, continuing without hardware signals: %v", err)
			s.degraded = true
		}
		return nil
	}
	log.Printf("sent %s signal to hardware", token)
	return nil
}

// Close releases the serial port.
func (s *SerialLink) Close() error {
	return s.port.Close()
}
