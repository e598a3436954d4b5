// Package resolve binds the identifiers of a Kestrel file to objects and
// records, for every statement, the variables it defines and reads and the
// errors it may raise. There is no type checking beyond what error
// handling needs.
package resolve

import (
	"fmt"

	"github.com/you-not-fish/kestrel/internal/syntax"
)

// Error represents a name resolution error.
type Error struct {
	Pos syntax.Pos
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorHandler is a function called for each resolution error.
type ErrorHandler func(pos syntax.Pos, msg string)

// errorf reports a resolution error at the given position.
func (r *resolver) errorf(pos syntax.Pos, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	if r.errors == 0 {
		r.first = &Error{Pos: pos, Msg: msg}
	}
	r.errors++

	if r.conf.Error != nil {
		r.conf.Error(pos, msg)
	}
}
