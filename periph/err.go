package periph

import (
	"errors"

	"github.com/ezrec/periphsim/translate"
)

var f = translate.From

var (
	ErrRealized    = errors.New(f("peripheral already realized"))
	ErrNotRealized = errors.New(f("peripheral not realized"))
)

// ErrRegisterDuplicate indicates a register name added twice.
type ErrRegisterDuplicate string

func (err ErrRegisterDuplicate) Error() string {
	return f("register %v duplicated", string(err))
}

func (err ErrRegisterDuplicate) Is(target error) (ok bool) {
	_, ok = target.(ErrRegisterDuplicate)
	return
}

// ErrRegisterMissing indicates a register name that is not attached.
type ErrRegisterMissing string

func (err ErrRegisterMissing) Error() string {
	return f("register %v missing", string(err))
}

func (err ErrRegisterMissing) Is(target error) (ok bool) {
	_, ok = target.(ErrRegisterMissing)
	return
}

// ErrRegisterOverlap indicates two registers claiming the same bytes of
// the peripheral's address space.
type ErrRegisterOverlap struct {
	Register string
	Other    string
}

func (err ErrRegisterOverlap) Error() string {
	return f("register %v overlaps register %v", err.Register, err.Other)
}

func (err ErrRegisterOverlap) Is(target error) (ok bool) {
	_, ok = target.(ErrRegisterOverlap)
	return
}

// ErrPeripheralOverlap indicates two peripherals claiming the same MMIO
// range on a bus.
type ErrPeripheralOverlap struct {
	Peripheral string
	Other      string
}

func (err ErrPeripheralOverlap) Error() string {
	return f("peripheral %v overlaps peripheral %v", err.Peripheral, err.Other)
}

func (err ErrPeripheralOverlap) Is(target error) (ok bool) {
	_, ok = target.(ErrPeripheralOverlap)
	return
}
