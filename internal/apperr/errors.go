// Package apperr defines the error taxonomy shared by the validation,
// access control and service layers. Every failure the core reports
// carries a stable Kind so the HTTP layer can map it to a status code,
// plus a human readable reason.
package apperr

import "errors"

// Kind classifies a domain failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindNoItems: a list query found zero results.
	KindNoItems
	// KindInvalidID: the referenced identifier does not exist.
	KindInvalidID
	// KindInvalidName: a name lookup missed, or a name is already taken.
	KindInvalidName
	// KindInvalidEntity: malformed input.
	KindInvalidEntity
	// KindAccessDenied: caller does not own the resource.
	KindAccessDenied
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindNoItems:       "no_items",
	KindInvalidID:     "invalid_id",
	KindInvalidName:   "invalid_name",
	KindInvalidEntity: "invalid_entity",
	KindAccessDenied:  "access_denied",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Error is a domain failure with a kind and a reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Kind.String()
	}
	return e.Reason
}

// Is reports whether target is an *Error of the same kind. The reason is
// not compared, so errors.Is(err, ErrInvalidName) matches both a missed
// lookup and a duplicate.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNoItems       = &Error{Kind: KindNoItems, Reason: "No Items"}
	ErrInvalidID     = &Error{Kind: KindInvalidID, Reason: "Invalid Id"}
	ErrInvalidName   = &Error{Kind: KindInvalidName, Reason: "Invalid Name"}
	ErrInvalidEntity = &Error{Kind: KindInvalidEntity, Reason: "Invalid Entity"}
	ErrAccessDenied  = &Error{Kind: KindAccessDenied, Reason: "Access Denied"}
)

// New returns an error of the given kind with a specific reason.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// NoItems, InvalidID, InvalidName, InvalidEntity and AccessDenied build
// errors of the matching kind.
func NoItems(reason string) *Error       { return New(KindNoItems, reason) }
func InvalidID(reason string) *Error     { return New(KindInvalidID, reason) }
func InvalidName(reason string) *Error   { return New(KindInvalidName, reason) }
func InvalidEntity(reason string) *Error { return New(KindInvalidEntity, reason) }
func AccessDenied(reason string) *Error  { return New(KindAccessDenied, reason) }

// KindOf extracts the kind of err, or KindUnknown when err is not a
// domain error (for example a store failure).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ReasonNameInUse distinguishes a taken name from a missed name lookup;
// both are KindInvalidName.
const ReasonNameInUse = "Name already in use"

// NameInUse reports a duplicate name.
func NameInUse() *Error { return InvalidName(ReasonNameInUse) }

// IsNameInUse reports whether err is the duplicate-name flavour of
// KindInvalidName.
func IsNameInUse(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindInvalidName && e.Reason == ReasonNameInUse
}
