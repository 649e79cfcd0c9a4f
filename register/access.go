package register

import (
	"fmt"
	"log"
)

// Access is the capability to perform sized accesses on a register.
type Access interface {
	// Read returns size bytes at the register-relative byte offset.
	Read(size uint, offset uint) (value uint64)
	// Write stores size bytes at the register-relative byte offset.
	Write(size uint, offset uint, value uint64)
}

// Read copies size bytes of the readable-masked register content,
// starting at the guest byte offset, into the low bytes of the result.
// Guest byte order is honored: for a little-endian register, offset 0 is
// the least significant byte; for a big-endian register, offset 0 is the
// most significant byte of the register width. Bytes beyond size are zero.
func (reg *Register) Read(size uint, offset uint) (value uint64) {
	reg.checkAccess(size, offset)

	masked := reg.value & reg.ReadableBits

	for i := uint(0); i < size; i++ {
		value = setByte(value, i, getByte(masked, reg.byteIndex(offset+i)))
	}

	if reg.Verbose {
		log.Printf("%v: read size %v offset %v -> 0x%0*x",
			reg.Name, size, offset, int(size*2), value)
	}

	return
}

// Write overwrites size bytes of the register at the guest byte offset,
// using the mirror image of the Read byte mapping. Bytes not covered by
// the access keep their current content, bits outside the writable mask
// never change, and the auto-bits rules are re-derived before the result
// is stored.
func (reg *Register) Write(size uint, offset uint, value uint64) {
	reg.checkAccess(size, offset)

	candidate := reg.value
	for i := uint(0); i < size; i++ {
		candidate = setByte(candidate, reg.byteIndex(offset+i), getByte(value, i))
	}

	merged := reg.value & ^reg.WritableBits
	merged |= candidate & reg.WritableBits

	reg.value = reg.applyAutoBits(merged)

	if reg.Verbose {
		log.Printf("%v: write size %v offset %v 0x%0*x -> 0x%x",
			reg.Name, size, offset, int(size*2), value, reg.value)
	}
}

// byteIndex maps a guest byte offset to a byte index of the canonical
// host-native value.
func (reg *Register) byteIndex(offset uint) (index uint) {
	if reg.bigEndian {
		return reg.SizeBits/8 - 1 - offset
	}

	return offset
}

// checkAccess fails fast on a malformed access. The caller (the address
// decode layer) must guarantee well-formed size/offset pairs.
func (reg *Register) checkAccess(size uint, offset uint) {
	reg.mustRealized()

	switch size {
	case 1, 2, 4, 8:
		// pass
	default:
		panic(fmt.Sprintf("register %v: access size %v not 1/2/4/8", reg.Name, size))
	}

	if offset+size > reg.SizeBits/8 {
		panic(fmt.Sprintf("register %v: access size %v offset %v exceeds %v bits",
			reg.Name, size, offset, reg.SizeBits))
	}
}

// getByte extracts byte index of a host-native value, LSB first.
func getByte(value uint64, index uint) (b uint8) {
	return uint8(value >> (8 * index))
}

// setByte replaces byte index of a host-native value, LSB first.
func setByte(value uint64, index uint, b uint8) (out uint64) {
	shift := 8 * index
	return (value & ^(uint64(0xff) << shift)) | (uint64(b) << shift)
}

// Hook wraps an Access with custom read and write behavior. The wrapped
// access remains available to the callbacks, so a specialization can
// extend the default behavior rather than replace it.
type Hook struct {
	Base    Access
	OnRead  func(base Access, size uint, offset uint) (value uint64)
	OnWrite func(base Access, size uint, offset uint, value uint64)
}

var _ Access = (*Hook)(nil)

func (h *Hook) Read(size uint, offset uint) (value uint64) {
	if h.OnRead != nil {
		return h.OnRead(h.Base, size, offset)
	}

	return h.Base.Read(size, offset)
}

func (h *Hook) Write(size uint, offset uint, value uint64) {
	if h.OnWrite != nil {
		h.OnWrite(h.Base, size, offset, value)
		return
	}

	h.Base.Write(size, offset, value)
}
