package register

import (
	"errors"

	"github.com/ezrec/periphsim/translate"
)

var f = translate.From

var (
	// Lifecycle errors
	ErrRealized    = errors.New(f("register already realized"))
	ErrNotRealized = errors.New(f("register not realized"))

	// Configuration errors
	ErrSizeInvalid   = errors.New(f("register size not a byte multiple of 8..64 bits"))
	ErrFieldName     = errors.New(f("bitfield name empty"))
	ErrFieldRelation = errors.New(f("bitfield declares more than one relation"))
)

// ErrFieldRange indicates a bitfield bit range outside the register width.
type ErrFieldRange struct {
	Field    string
	Register string
	FirstBit uint
	LastBit  uint
	SizeBits uint
}

func (err ErrFieldRange) Error() string {
	return f("bitfield %v of register %v range [%v:%v] exceeds %v bits",
		err.Field, err.Register, err.FirstBit, err.LastBit, err.SizeBits)
}

func (err ErrFieldRange) Is(target error) (ok bool) {
	_, ok = target.(ErrFieldRange)
	return
}

// ErrFieldOverlap indicates two sibling bitfield masks intersect.
type ErrFieldOverlap struct {
	Field    string
	Register string
}

func (err ErrFieldOverlap) Error() string {
	return f("bitfield %v of register %v overlaps with other bitfield",
		err.Field, err.Register)
}

func (err ErrFieldOverlap) Is(target error) (ok bool) {
	_, ok = target.(ErrFieldOverlap)
	return
}

// ErrRelationMissing indicates a follows/cleared-by/set-by target that
// cannot be resolved among the sibling bitfields.
type ErrRelationMissing struct {
	Kind     AutoKind
	Field    string
	Register string
	Target   string
}

func (err ErrRelationMissing) Error() string {
	return f("bitfield %v of register %v %v missing %v bitfield",
		err.Field, err.Register, err.Kind, err.Target)
}

func (err ErrRelationMissing) Is(target error) (ok bool) {
	_, ok = target.(ErrRelationMissing)
	return
}
