package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures raised by the queue, dispatch and worker layers.
// Callers branch on the kind, never on the message text.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation: a required parameter was missing before any network call.
	KindValidation
	// KindDispatch: the email provider rejected or failed the send.
	KindDispatch
	// KindConnection: the queue store could not be reached.
	KindConnection
	// KindParse: a popped payload could not be decoded.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDispatch:
		return "dispatch"
	case KindConnection:
		return "connection"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the tagged error carried across the email pipeline.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindDispatch}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

func ValidationError(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

func DispatchError(op string, err error) error {
	return &Error{Kind: KindDispatch, Op: op, Msg: "failed to send email", Err: err}
}

func ConnectionError(op string, err error) error {
	return &Error{Kind: KindConnection, Op: op, Msg: "queue store unreachable", Err: err}
}

func ParseError(op string, err error) error {
	return &Error{Kind: KindParse, Op: op, Msg: "malformed payload", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Sentinel errors used by the HTTP layer.
var (
	ErrUserExists         = errors.New("user already exists with this email")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrWebsiteNotFound = errors.New("website not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("user already reviewed this website")
	ErrAlreadyUpvoted  = errors.New("user already upvoted this review")
)
