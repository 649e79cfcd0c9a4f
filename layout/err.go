package layout

import (
	"github.com/ezrec/periphsim/translate"
)

var f = translate.From

// ErrLayout wraps a failure to load a layout file.
type ErrLayout struct {
	File string
	Err  error
}

func (err ErrLayout) Error() string {
	return f("layout %v: %v", err.File, err.Err)
}

func (err ErrLayout) Unwrap() error {
	return err.Err
}

func (err ErrLayout) Is(target error) (ok bool) {
	_, ok = target.(ErrLayout)
	return
}

// ErrBitsInvalid indicates a field bits= value that is not an int or a
// [first] / [first, last] list.
type ErrBitsInvalid string

func (err ErrBitsInvalid) Error() string {
	return f("field %v bits not an int or [first] or [first, last]", string(err))
}

func (err ErrBitsInvalid) Is(target error) (ok bool) {
	_, ok = target.(ErrBitsInvalid)
	return
}

// ErrValueExpected indicates a list element of the wrong layout type.
type ErrValueExpected struct {
	Want string
	Got  string
}

func (err ErrValueExpected) Error() string {
	return f("expected %v value, got %v", err.Want, err.Got)
}

func (err ErrValueExpected) Is(target error) (ok bool) {
	_, ok = target.(ErrValueExpected)
	return
}
