package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"
)

// Prober sends a single latency probe to a target.
type Prober interface {
	// Probe returns the round trip time in millis. It must return within timeout.
	Probe(ctx context.Context, target *net.IPAddr, timeout time.Duration, payload []byte) (float64, error)
}

// Kind describes why a probe failed.
type Kind int

const (
	KindOther Kind = iota
	KindTimeout
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindUnreachable:
		return "unreachable"
	default:
		return "other"
	}
}

// Error is returned for failed probes.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the probe ran out of time.
func (e *Error) Timeout() bool {
	return e.Kind == KindTimeout
}

// Classify wraps err into an *Error of the matching kind. nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}

	return &Error{Kind: kindOf(err), Err: err}
}

// KindOf returns the failure kind of a probe error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return kindOf(err)
}

func kindOf(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}

	if errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.EHOSTDOWN) {
		return KindUnreachable
	}

	// ICMP destination unreachable replies only carry the message type
	if strings.Contains(err.Error(), "unreachable") {
		return KindUnreachable
	}

	return KindOther
}

// Payload returns a payload of the given size filled with 1, 2, 3, ...
func Payload(size uint16) []byte {
	p := make([]byte, size)
	for i := range p {
		p[i] = byte(i + 1)
	}
	return p
}
