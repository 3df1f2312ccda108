package ir

import (
	"errors"
	"fmt"
)

var (
	ErrUndefinedLabel = errors.New("jump to undefined label")
	ErrDuplicateLabel = errors.New("label defined twice")
	ErrUnsetTemporary = errors.New("temporary read before it is set")
)

// ValidationError locates a problem in a quadruple list.
type ValidationError struct {
	Index int
	Name  string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("quadruple %d: %v: %s", e.Index, e.Err, e.Name)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateQuadruples checks that jumps target labels that exist, that no
// label is defined twice and that every temporary is written before it
// is read. It returns nil for a well-formed list.
func ValidateQuadruples(quads []Quadruple) []error {
	var errs []error
	defined := make(map[string]int)
	for _, q := range quads {
		if q.Op != OpLabel {
			continue
		}
		if _, dup := defined[q.Result]; dup {
			errs = append(errs, &ValidationError{Index: q.Index, Name: q.Result, Err: ErrDuplicateLabel})
			continue
		}
		defined[q.Result] = q.Index
	}

	set := make(map[string]bool)
	for _, q := range quads {
		if q.Op.IsJump() {
			if _, ok := defined[q.Result]; !ok {
				errs = append(errs, &ValidationError{Index: q.Index, Name: q.Result, Err: ErrUndefinedLabel})
			}
		}
		for _, arg := range []string{q.Arg1, q.Arg2} {
			if isTemp(arg) && !set[arg] {
				errs = append(errs, &ValidationError{Index: q.Index, Name: arg, Err: ErrUnsetTemporary})
			}
		}
		if isTemp(q.Result) {
			set[q.Result] = true
		}
	}
	return errs
}
