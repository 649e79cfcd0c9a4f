package register

// BitfieldConfig declares a named contiguous bit range within a register.
type BitfieldConfig struct {
	Name       string // Unique name among the register's bitfields.
	FirstBit   uint   // First (lowest) bit position, 0-based.
	LastBit    uint   // Last bit position, inclusive. 0 defaults to FirstBit.
	ResetValue uint64 // Field value at reset, pre-shift.
	Mode       RwMode // Access mode. 0 inherits the register's mode.

	// At most one of the following relations may be declared, naming a
	// sibling bitfield.
	Follows   string // This field always mirrors the named field.
	ClearedBy string // Setting the named field clears this field.
	SetBy     string // Setting the named field sets this field.
}

// Bitfield is a resolved bitfield descriptor. It is immutable after the
// owning register is realized.
type Bitfield struct {
	Name       string
	FirstBit   uint
	LastBit    uint
	Mask       uint64 // Field bits within the register.
	Shift      uint   // FirstBit, the in-register shift of the field.
	ResetValue uint64
	IsReadable bool
	IsWritable bool

	Follows   string
	ClearedBy string
	SetBy     string
}

// newBitfield resolves a bitfield config against its owning register.
func newBitfield(reg *Register, conf BitfieldConfig) (bifi *Bitfield, err error) {
	if conf.Name == "" {
		err = ErrFieldName
		return
	}

	last := conf.LastBit
	if last == 0 {
		last = conf.FirstBit
	}

	if conf.FirstBit > last || last >= reg.SizeBits {
		err = ErrFieldRange{
			Field:    conf.Name,
			Register: reg.Name,
			FirstBit: conf.FirstBit,
			LastBit:  last,
			SizeBits: reg.SizeBits,
		}
		return
	}

	relations := 0
	for _, target := range []string{conf.Follows, conf.ClearedBy, conf.SetBy} {
		if target != "" {
			relations++
		}
	}
	if relations > 1 {
		err = ErrFieldRelation
		return
	}

	bifi = &Bitfield{
		Name:       conf.Name,
		FirstBit:   conf.FirstBit,
		LastBit:    last,
		Mask:       maskOf(conf.FirstBit, last),
		Shift:      conf.FirstBit,
		ResetValue: conf.ResetValue,
		Follows:    conf.Follows,
		ClearedBy:  conf.ClearedBy,
		SetBy:      conf.SetBy,
	}

	if conf.Mode != 0 {
		bifi.IsReadable = (conf.Mode & RW_MODE_READ) != 0
		bifi.IsWritable = (conf.Mode & RW_MODE_WRITE) != 0
	} else {
		// Inherit the whole-register access mode.
		bifi.IsReadable = reg.IsReadable
		bifi.IsWritable = reg.IsWritable
	}

	return
}

// maskOf computes the mask of an inclusive bit range.
func maskOf(first uint, last uint) (mask uint64) {
	nbits := last - first + 1
	if nbits >= 64 {
		return ^uint64(0)
	}

	return ((uint64(1) << nbits) - 1) << first
}
