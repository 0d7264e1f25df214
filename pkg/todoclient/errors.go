package todoclient

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindNetwork Kind = iota // no response: refused, timeout, DNS
	KindServer              // 5xx or an unexpected status
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	default:
		return "server"
	}
}

// Sentinels for errors.Is; every *Error matches exactly one of them.
var (
	ErrNetwork    = errors.New("todo api unreachable")
	ErrServer     = errors.New("todo api error")
	ErrNotFound   = errors.New("todo not found")
	ErrValidation = errors.New("invalid todo")
)

// Error is returned by every Client call that did not succeed.
type Error struct {
	Kind    Kind
	Status  int // 0 for KindNetwork
	Message string
	Err     error // transport cause, KindNetwork only
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNetwork && e.Err != nil:
		return fmt.Sprintf("%s: %v", ErrNetwork, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s (%d)", e.Kind, e.Status)
	}
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrServer:
		return e.Kind == KindServer
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

func (e *Error) Unwrap() error {
	return e.Err
}

func kindForStatus(status int) Kind {
	switch status {
	case 400:
		return KindValidation
	case 404:
		return KindNotFound
	default:
		return KindServer
	}
}
