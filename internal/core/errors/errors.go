package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a core error so callers can branch without matching messages.
type Kind string

const (
	KindInvalidInput     Kind = "invalid_input"
	KindMalformedHistory Kind = "malformed_history"
	KindNotFound         Kind = "not_found"
	KindUpstream         Kind = "upstream"
	KindStorage          Kind = "storage"
	KindMapping          Kind = "mapping"
	KindNotConfigured    Kind = "not_configured"
	// KindConfig is a server-side configuration value the operation cannot use.
	KindConfig Kind = "config"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMalformedHistory = errors.New("malformed status history")
	ErrNotFound         = errors.New("not found")
	ErrDeviceNotFound   = fmt.Errorf("device %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrUpstream         = errors.New("upstream request failed")
	ErrStorage          = errors.New("storage operation failed")
	ErrMapping          = errors.New("record mapping failed")
	ErrNotConfigured    = errors.New("integration not configured")
	ErrConfig           = errors.New("invalid configuration")
)

var sentinels = map[Kind]error{
	KindInvalidInput:     ErrInvalidInput,
	KindMalformedHistory: ErrMalformedHistory,
	KindNotFound:         ErrNotFound,
	KindUpstream:         ErrUpstream,
	KindStorage:          ErrStorage,
	KindMapping:          ErrMapping,
	KindNotConfigured:    ErrNotConfigured,
	KindConfig:           ErrConfig,
}

// Error is a tagged error carrying the record it concerns.
type Error struct {
	Kind   Kind
	Serial string // device serial or other external key, if known
	Field  string
	Msg    string
	Err    error
}

// New builds a tagged error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap tags err with kind. A nil err yields nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: kind, Msg: msg, Err: err}
}

// WithSerial returns a copy of e annotated with an external key.
func (e *Error) WithSerial(serial string) *Error {
	c := *e
	c.Serial = serial

	return &c
}

// WithField returns a copy of e annotated with the offending field.
func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field

	return &c
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}

	if e.Serial != "" {
		msg += fmt.Sprintf(" (serial=%s", e.Serial)
		if e.Field != "" {
			msg += fmt.Sprintf(", field=%s", e.Field)
		}
		msg += ")"
	} else if e.Field != "" {
		msg += fmt.Sprintf(" (field=%s)", e.Field)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a tagged error against its kind's sentinel.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf reports the kind of the first tagged error in err's chain.
func KindOf(err error) (Kind, bool) {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind, true
	}

	for kind, s := range sentinels {
		if errors.Is(err, s) {
			return kind, true
		}
	}

	return "", false
}
