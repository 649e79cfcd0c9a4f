// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package periph

import (
	"fmt"
	"iter"
	"log"
	"slices"
	"strings"

	"github.com/ezrec/periphsim/internal"
	"github.com/ezrec/periphsim/register"
)

// Peripheral owns an ordered collection of registers and decodes MMIO
// accesses within its byte range to the covering register. It supplies
// the default register width and the guest endianness to its registers.
type Peripheral struct {
	Verbose bool // If set, enables verbose access logging.

	Name         string
	MmioBase     uint64 // Bus address of the peripheral.
	MmioSize     uint64 // Byte span on the bus. 0 is sized from the registers.
	RegisterBits uint   // Default register width in bits. 0 means 32.
	BigEndian    bool   // Guest endianness, fixed at construction.

	slots    []*slot
	realized bool
}

// slot binds a register to its access capability, which a Hook() may
// have wrapped.
type slot struct {
	reg    *register.Register
	access register.Access
}

var _ register.Parent = (*Peripheral)(nil)

// RegisterSizeBits returns the default register width in bits.
func (p *Peripheral) RegisterSizeBits() (bits uint) {
	bits = p.RegisterBits
	if bits == 0 {
		bits = register.DEFAULT_SIZE_BITS
	}
	return
}

// IsBigEndian reports the guest endianness of the peripheral.
func (p *Peripheral) IsBigEndian() (be bool) {
	return p.BigEndian
}

// Add constructs a register from its config and attaches it to the
// peripheral.
func (p *Peripheral) Add(name string, conf register.Config) (reg *register.Register, err error) {
	if p.realized {
		err = ErrRealized
		return
	}

	if _, ok := p.Lookup(name); ok {
		err = ErrRegisterDuplicate(name)
		return
	}

	reg, err = register.New(p, name, conf)
	if err != nil {
		return
	}

	p.slots = append(p.slots, &slot{reg: reg, access: reg})
	return
}

// Hook wraps a register's access with custom read/write behavior. The
// callbacks receive the previous access capability for chaining.
func (p *Peripheral) Hook(name string,
	onRead func(base register.Access, size uint, offset uint) uint64,
	onWrite func(base register.Access, size uint, offset uint, value uint64)) (err error) {
	for _, slot := range p.slots {
		if slot.reg.Name == name {
			slot.access = &register.Hook{
				Base:    slot.access,
				OnRead:  onRead,
				OnWrite: onWrite,
			}
			return
		}
	}

	err = ErrRegisterMissing(name)
	return
}

// Realize realizes every attached register, validates that no two
// registers overlap in the peripheral's address space, and resets the
// peripheral. It runs exactly once.
func (p *Peripheral) Realize() (err error) {
	if p.realized {
		return ErrRealized
	}

	slices.SortStableFunc(p.slots, func(a, b *slot) int {
		return int(a.reg.Offset) - int(b.reg.Offset)
	})

	end := uint64(0)
	prev := ""
	for _, slot := range p.slots {
		reg := slot.reg
		reg.Verbose = p.Verbose

		err = reg.Realize()
		if err != nil {
			return
		}

		if uint64(reg.Offset) < end {
			return ErrRegisterOverlap{Register: reg.Name, Other: prev}
		}
		end = uint64(reg.Offset) + uint64(reg.SizeBits/8)
		prev = reg.Name
	}

	if p.MmioSize == 0 {
		p.MmioSize = end
	}

	p.realized = true
	return
}

// Reset restores every register to its reset value.
func (p *Peripheral) Reset() {
	p.mustRealized()

	for _, slot := range p.slots {
		slot.reg.Reset()
	}
}

// Lookup finds an attached register by name.
func (p *Peripheral) Lookup(name string) (reg *register.Register, ok bool) {
	for _, slot := range p.slots {
		if slot.reg.Name == name {
			return slot.reg, true
		}
	}
	return
}

// Registers iterates the attached registers in address order once the
// peripheral is realized, and in attachment order before that.
func (p *Peripheral) Registers() iter.Seq[*register.Register] {
	return func(yield func(*register.Register) bool) {
		for _, slot := range p.slots {
			if !yield(slot.reg) {
				return
			}
		}
	}
}

// Read decodes a peripheral-relative MMIO read to the covering register.
// Reads of unbacked bytes return zero.
func (p *Peripheral) Read(offset uint64, size uint) (value uint64) {
	p.mustRealized()

	slot, rel := p.decode(offset, size)
	if slot == nil {
		if p.Verbose {
			log.Printf("%v: read size %v offset 0x%02x unassigned", p.Name, size, offset)
		}
		return 0
	}

	return slot.access.Read(size, rel)
}

// Write decodes a peripheral-relative MMIO write to the covering
// register. Writes to unbacked bytes are dropped.
func (p *Peripheral) Write(offset uint64, size uint, value uint64) {
	p.mustRealized()

	slot, rel := p.decode(offset, size)
	if slot == nil {
		if p.Verbose {
			log.Printf("%v: write size %v offset 0x%02x unassigned", p.Name, size, offset)
		}
		return
	}

	slot.access.Write(size, rel, value)
}

// decode finds the register whose byte range fully covers the access.
func (p *Peripheral) decode(offset uint64, size uint) (found *slot, rel uint) {
	for _, slot := range p.slots {
		first := uint64(slot.reg.Offset)
		limit := first + uint64(slot.reg.SizeBits/8)
		if offset >= first && offset+uint64(size) <= limit {
			return slot, uint(offset - first)
		}
	}
	return
}

// Defines iterates symbolic constants for the peripheral: its base
// address and the register layout, all prefixed with the peripheral name.
func (p *Peripheral) Defines() iter.Seq2[string, string] {
	name := strings.ToUpper(p.Name)

	base := func(yield func(string, string) bool) {
		yield(name+"_BASE", fmt.Sprintf("0x%08x", p.MmioBase))
	}

	seqs := []iter.Seq2[string, string]{base}
	for _, slot := range p.slots {
		seqs = append(seqs, internal.IterSeq2Apply(slot.reg.Defines(),
			func(key string, value string) (string, string) {
				return name + "_" + key, value
			}))
	}

	return internal.IterSeq2Concat(seqs...)
}

func (p *Peripheral) mustRealized() {
	if !p.realized {
		panic(fmt.Sprintf("peripheral %v: %v", p.Name, ErrNotRealized))
	}
}
