// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package register

import (
	"fmt"
	"iter"
	"log"
	"strings"
)

const (
	DEFAULT_SIZE_BITS = uint(32) // Register width when neither config nor parent provides one.
)

// Parent supplies the register defaults inherited from the enclosing
// peripheral: the default register width and the guest endianness.
type Parent interface {
	RegisterSizeBits() (bits uint)
	IsBigEndian() (be bool)
}

// Config declares a register and its bitfields.
type Config struct {
	Offset       uint32 // Byte offset within the owning peripheral.
	SizeBits     uint   // Register width. 0 inherits the parent default.
	ResetValue   uint64 // Register content after Reset().
	ReadableBits uint64 // Explicit readable mask, in addition to bitfields.
	WritableBits uint64 // Explicit writable mask, in addition to bitfields.
	AccessFlags  uint32 // Opaque access flags, kept for the MMIO layer.
	Mode         RwMode // Whole-register access mode. 0 means read/write.

	Bitfields []BitfieldConfig
}

// Register models a single memory-mapped peripheral register.
type Register struct {
	Verbose bool // If set, logs accesses and the realize summary.

	Name         string
	Offset       uint32
	SizeBits     uint
	ResetValue   uint64
	ReadableBits uint64 // Bits outside this mask read as zero.
	WritableBits uint64 // Bits outside this mask never change on write.
	AccessFlags  uint32
	IsReadable   bool // When false, forces ReadableBits to zero.
	IsWritable   bool // When false, forces WritableBits to zero.

	bigEndian bool
	fields    []*Bitfield
	autoBits  []autoRule
	value     uint64
	realized  bool
}

var _ Access = (*Register)(nil)

// New constructs a register from its config. Width and endianness default
// from the parent when not configured; a nil parent is permitted and
// defaults to a 32-bit little-endian register.
func New(parent Parent, name string, conf Config) (reg *Register, err error) {
	sizeBits := conf.SizeBits
	bigEndian := false
	if parent != nil {
		if sizeBits == 0 {
			sizeBits = parent.RegisterSizeBits()
		}
		bigEndian = parent.IsBigEndian()
	}
	if sizeBits == 0 {
		sizeBits = DEFAULT_SIZE_BITS
	}

	if sizeBits%8 != 0 || sizeBits > 64 {
		err = ErrSizeInvalid
		return
	}

	reg = &Register{
		Name:         name,
		Offset:       conf.Offset,
		SizeBits:     sizeBits,
		ResetValue:   conf.ResetValue,
		ReadableBits: conf.ReadableBits,
		WritableBits: conf.WritableBits,
		AccessFlags:  conf.AccessFlags,
		bigEndian:    bigEndian,
	}

	if conf.Mode != 0 {
		reg.IsReadable = (conf.Mode & RW_MODE_READ) != 0
		reg.IsWritable = (conf.Mode & RW_MODE_WRITE) != 0
	} else {
		reg.IsReadable = true
		reg.IsWritable = true
	}

	for _, bc := range conf.Bitfields {
		var bifi *Bitfield
		bifi, err = newBitfield(reg, bc)
		if err != nil {
			reg = nil
			return
		}
		reg.fields = append(reg.fields, bifi)
	}

	return
}

// Realize validates the bitfields and computes the aggregate masks, the
// composite reset value, and the auto-bits rule table. It runs exactly
// once; a failed Realize leaves the register unmodified.
func (reg *Register) Realize() (err error) {
	if reg.realized {
		return ErrRealized
	}

	// Validate bitfields and collect their mask contributions.
	var fieldsMask, fieldsReadable, fieldsWritable, fieldsReset uint64
	for _, bifi := range reg.fields {
		if (bifi.Mask & fieldsMask) != 0 {
			return ErrFieldOverlap{Field: bifi.Name, Register: reg.Name}
		}
		fieldsMask |= bifi.Mask

		if bifi.IsReadable {
			fieldsReadable |= bifi.Mask
		}
		if bifi.IsWritable {
			fieldsWritable |= bifi.Mask
		}

		// The field reset value replaces the register reset bits in
		// its range.
		fieldsReset &= ^bifi.Mask
		fieldsReset |= (bifi.ResetValue << bifi.Shift) & bifi.Mask
	}

	autoBits, err := reg.buildAutoBits()
	if err != nil {
		return
	}

	readable := reg.ReadableBits
	writable := reg.WritableBits
	if fieldsMask != 0 {
		// Bitfields contribute more bits to the configured masks.
		readable |= fieldsReadable
		writable |= fieldsWritable
	} else {
		// No declared structure. Default unset masks to the whole
		// register.
		if readable == 0 && reg.IsReadable {
			readable = ^uint64(0)
		}
		if writable == 0 && reg.IsWritable {
			writable = ^uint64(0)
		}
	}

	if !reg.IsReadable {
		readable = 0
	}
	if !reg.IsWritable {
		writable = 0
	}

	width := reg.widthMask()
	reg.ReadableBits = readable & width
	reg.WritableBits = writable & width
	reg.ResetValue = (reg.ResetValue & ^fieldsMask) | fieldsReset
	reg.autoBits = autoBits
	reg.realized = true

	reg.Reset()

	if reg.Verbose {
		log.Printf("%v: readable: 0x%08x, writable: 0x%08x, reset: 0x%08x, mode: %v",
			reg.Name, reg.ReadableBits, reg.WritableBits, reg.ResetValue, reg.mode())
	}

	return
}

// Reset restores the register content to its reset value. Masks and the
// auto-bits table are realize-time invariants and are not affected.
func (reg *Register) Reset() {
	reg.mustRealized()

	reg.value = reg.ResetValue
}

// Value returns the readable-masked register content.
func (reg *Register) Value() (value uint64) {
	reg.mustRealized()

	return reg.value & reg.ReadableBits
}

// Field looks up a bitfield by name.
func (reg *Register) Field(name string) (bifi *Bitfield, ok bool) {
	for _, bifi = range reg.fields {
		if bifi.Name == name {
			ok = true
			return
		}
	}

	bifi = nil
	return
}

// Fields iterates the bitfields in declaration order.
func (reg *Register) Fields() iter.Seq[*Bitfield] {
	return func(yield func(*Bitfield) bool) {
		for _, bifi := range reg.fields {
			if !yield(bifi) {
				return
			}
		}
	}
}

// Defines iterates symbolic constants describing the register layout:
// the register offset, and a mask and shift for every bitfield.
func (reg *Register) Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		name := strings.ToUpper(reg.Name)
		if !yield(name, fmt.Sprintf("0x%02x", reg.Offset)) {
			return
		}
		for _, bifi := range reg.fields {
			field := name + "_" + strings.ToUpper(bifi.Name)
			if !yield(field+"_MASK", fmt.Sprintf("0x%x", bifi.Mask)) {
				return
			}
			if !yield(field+"_SHIFT", fmt.Sprintf("%v", bifi.Shift)) {
				return
			}
		}
	}
}

// IsBigEndian reports the guest endianness the register was built with.
func (reg *Register) IsBigEndian() (be bool) {
	return reg.bigEndian
}

func (reg *Register) mode() (mode RwMode) {
	if reg.IsReadable {
		mode |= RW_MODE_READ
	}
	if reg.IsWritable {
		mode |= RW_MODE_WRITE
	}
	return
}

func (reg *Register) widthMask() (mask uint64) {
	if reg.SizeBits >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << reg.SizeBits) - 1
}

func (reg *Register) mustRealized() {
	if !reg.realized {
		panic(fmt.Sprintf("register %v: %v", reg.Name, ErrNotRealized))
	}
}
