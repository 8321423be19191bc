package hardware

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsoleLink simulates the hardware line when no serial port is available.
// Triggers come from operator input; outbound commands are printed and
// never fail.
type ConsoleLink struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewConsoleLink creates a simulated link reading operator commands from r
// (normally stdin) and printing to w.
func NewConsoleLink(r io.Reader, w io.Writer) *ConsoleLink {
	return &ConsoleLink{scanner: bufio.NewScanner(r), out: w}
}

// NextTrigger prompts the operator: 'm' simulates MOTION, 'q' quits.
func (c *ConsoleLink) NextTrigger(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(c.out, "[SIMULATION] Type 'm' + Enter to simulate MOTION, or 'q' to quit: ")
		if !c.scanner.Scan() {
			return ErrQuit
		}

		switch strings.ToLower(strings.TrimSpace(c.scanner.Text())) {
		case "m":
			return nil
		case "q":
			return ErrQuit
		}
	}
}

// Drain is a no-op: the operator types one trigger at a time.
func (c *ConsoleLink) Drain() {}

func (c *ConsoleLink) SendAlarm() error {
	fmt.Fprintln(c.out, "[SIMULATION] Hardware Alarm Triggered (Buzzer ON)")
	return nil
}

func (c *ConsoleLink) SendWelcome() error {
	fmt.Fprintln(c.out, "[SIMULATION] Hardware Welcome Beep (Short & Pleasant)")
	return nil
}
