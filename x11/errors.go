package x11

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrIDsExhausted is returned by ClaimID when every ID in the client's
	// range is in use. The connection cannot create resources anymore.
	ErrIDsExhausted = errors.New("x11: resource ID space exhausted")

	// ErrRequestTooLarge is returned when a request would exceed the
	// server's maximum request length. Nothing is sent.
	ErrRequestTooLarge = errors.New("x11: request exceeds maximum request length")

	// ErrTextTooLong is returned when a string does not fit in the request
	// it is destined for.
	ErrTextTooLong = errors.New("x11: text too long for request")

	ErrNoProperty        = errors.New("x11: property does not exist")
	ErrPropertyTruncated = errors.New("x11: property value larger than read length")
	ErrNoAtom            = errors.New("x11: atom does not exist")
	ErrClosed            = errors.New("x11: connection closed")
)

// ErrorCode is the kind of a protocol error.
type ErrorCode byte

const (
	BadRequest        ErrorCode = 1
	BadValue          ErrorCode = 2
	BadWindow         ErrorCode = 3
	BadPixmap         ErrorCode = 4
	BadAtom           ErrorCode = 5
	BadCursor         ErrorCode = 6
	BadFont           ErrorCode = 7
	BadMatch          ErrorCode = 8
	BadDrawable       ErrorCode = 9
	BadAccess         ErrorCode = 10
	BadAlloc          ErrorCode = 11
	BadColormap       ErrorCode = 12
	BadGContext       ErrorCode = 13
	BadIDChoice       ErrorCode = 14
	BadName           ErrorCode = 15
	BadLength         ErrorCode = 16
	BadImplementation ErrorCode = 17
)

var errorCodeNames = [...]string{
	BadRequest:        "BadRequest",
	BadValue:          "BadValue",
	BadWindow:         "BadWindow",
	BadPixmap:         "BadPixmap",
	BadAtom:           "BadAtom",
	BadCursor:         "BadCursor",
	BadFont:           "BadFont",
	BadMatch:          "BadMatch",
	BadDrawable:       "BadDrawable",
	BadAccess:         "BadAccess",
	BadAlloc:          "BadAlloc",
	BadColormap:       "BadColormap",
	BadGContext:       "BadGContext",
	BadIDChoice:       "BadIDChoice",
	BadName:           "BadName",
	BadLength:         "BadLength",
	BadImplementation: "BadImplementation",
}

func (c ErrorCode) String() string {
	if int(c) < len(errorCodeNames) && errorCodeNames[c] != "" {
		return errorCodeNames[c]
	}
	return fmt.Sprintf("Unknown%d", byte(c))
}

// Error is a protocol error sent by the server. It is scoped to the request
// that caused it; the connection stays usable.
//
// Errors for requests that have a reply are returned by the call that issued
// the request. All others are delivered to Error listeners.
type Error struct {
	Code        ErrorCode
	Sequence    uint16
	BadValue    uint32 // offending resource ID or value
	MinorOpcode uint16
	MajorOpcode byte
	Synthetic   bool
}

func decodeError(buf []byte) Event {
	return &Error{
		Code:        ErrorCode(buf[1]),
		Sequence:    get16(buf[2:]),
		BadValue:    get32(buf[4:]),
		MinorOpcode: get16(buf[8:]),
		MajorOpcode: buf[10],
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("X11 error %s (code %d): resource 0x%x opcode %d.%d sequence %d",
		e.Code, byte(e.Code), e.BadValue, e.MajorOpcode, e.MinorOpcode, e.Sequence)
}

func (*Error) ImplementsEvent() {}

func (*Error) opcodes() []byte { return []byte{0} }

// IsErrorCode reports whether err is a protocol error with the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var xe *Error
	return errors.As(err, &xe) && xe.Code == code
}
