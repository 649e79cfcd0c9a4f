package periph

import (
	"iter"
	"log"

	"github.com/ezrec/periphsim/internal"
)

// Bus routes absolute MMIO accesses to the peripheral claiming the
// address. Reads of unclaimed addresses return zero, writes to them are
// dropped.
type Bus struct {
	Verbose bool

	peripherals []*Peripheral
}

// Attach adds a realized peripheral to the bus, rejecting MMIO range
// overlaps with already attached peripherals.
func (bus *Bus) Attach(p *Peripheral) (err error) {
	p.mustRealized()

	for _, other := range bus.peripherals {
		if p.MmioBase < other.MmioBase+other.MmioSize &&
			other.MmioBase < p.MmioBase+p.MmioSize {
			err = ErrPeripheralOverlap{Peripheral: p.Name, Other: other.Name}
			return
		}
	}

	bus.peripherals = append(bus.peripherals, p)
	return
}

// Lookup finds an attached peripheral by name.
func (bus *Bus) Lookup(name string) (p *Peripheral, ok bool) {
	for _, p = range bus.peripherals {
		if p.Name == name {
			ok = true
			return
		}
	}

	p = nil
	return
}

// Peripherals iterates the attached peripherals in attachment order.
func (bus *Bus) Peripherals() iter.Seq[*Peripheral] {
	return func(yield func(*Peripheral) bool) {
		for _, p := range bus.peripherals {
			if !yield(p) {
				return
			}
		}
	}
}

// Reset resets every attached peripheral.
func (bus *Bus) Reset() {
	for _, p := range bus.peripherals {
		p.Reset()
	}
}

// Read routes an absolute MMIO read to the claiming peripheral.
func (bus *Bus) Read(addr uint64, size uint) (value uint64) {
	p := bus.claim(addr)
	if p == nil {
		if bus.Verbose {
			log.Printf("bus: read size %v addr 0x%08x unclaimed", size, addr)
		}
		return 0
	}

	return p.Read(addr-p.MmioBase, size)
}

// Write routes an absolute MMIO write to the claiming peripheral.
func (bus *Bus) Write(addr uint64, size uint, value uint64) {
	p := bus.claim(addr)
	if p == nil {
		if bus.Verbose {
			log.Printf("bus: write size %v addr 0x%08x unclaimed", size, addr)
		}
		return
	}

	p.Write(addr-p.MmioBase, size, value)
}

func (bus *Bus) claim(addr uint64) (found *Peripheral) {
	for _, p := range bus.peripherals {
		if addr >= p.MmioBase && addr < p.MmioBase+p.MmioSize {
			return p
		}
	}
	return
}

// Defines iterates the symbolic constants of every attached peripheral.
func (bus *Bus) Defines() iter.Seq2[string, string] {
	seqs := make([]iter.Seq2[string, string], 0, len(bus.peripherals))
	for _, p := range bus.peripherals {
		seqs = append(seqs, p.Defines())
	}

	return internal.IterSeq2Concat(seqs...)
}
