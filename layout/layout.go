// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package layout loads declarative peripheral definitions from Starlark
// files.
//
// A layout file builds peripherals from three builtins:
//
//	peripheral(name, base=0, size=0, register_bits=0, big_endian=False,
//	           registers=[...])
//	register(name, offset, size_bits=0, reset=0, readable=0, writable=0,
//	         access_flags=0, mode="", fields=[...])
//	field(name, bits, reset=0, mode="", follows="", cleared_by="",
//	      set_by="")
//
// A field's bits= is a single bit position or a [first, last] inclusive
// range; mode= is "r", "w" or "rw", defaulting to the enclosing scope.
// Peripherals are realized as they are declared, so configuration errors
// surface with the position of the peripheral() call.
package layout

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/periphsim/periph"
	"github.com/ezrec/periphsim/register"
)

// Layout is the set of peripherals declared by a layout file.
type Layout struct {
	Peripherals []*periph.Peripheral
}

// Load executes a layout file.
func Load(filename string) (lay *Layout, err error) {
	return Parse(filename, nil)
}

// Parse executes layout source. src may be nil to read the named file,
// or a string/[]byte/io.Reader of source text.
func Parse(name string, src any) (lay *Layout, err error) {
	lay = &Layout{}

	pred := starlark.StringDict{
		"peripheral": starlark.NewBuiltin("peripheral", lay.stPeripheral),
		"register":   starlark.NewBuiltin("register", stRegister),
		"field":      starlark.NewBuiltin("field", stField),
	}

	thread := starlark.Thread{Name: name}
	opts := syntax.FileOptions{}
	_, err = starlark.ExecFileOptions(&opts, &thread, name, src, pred)
	if err != nil {
		lay = nil
		err = ErrLayout{File: name, Err: err}
		return
	}

	return
}

// Lookup finds a declared peripheral by name.
func (lay *Layout) Lookup(name string) (p *periph.Peripheral, ok bool) {
	for _, p = range lay.Peripherals {
		if p.Name == name {
			ok = true
			return
		}
	}

	p = nil
	return
}

// Bus attaches every declared peripheral to a fresh bus.
func (lay *Layout) Bus() (bus *periph.Bus, err error) {
	bus = &periph.Bus{}
	for _, p := range lay.Peripherals {
		err = bus.Attach(p)
		if err != nil {
			bus = nil
			return
		}
	}
	return
}

// fieldValue is the opaque result of the field() builtin.
type fieldValue struct {
	conf register.BitfieldConfig
}

var _ starlark.Value = (*fieldValue)(nil)

func (fv *fieldValue) String() string       { return fmt.Sprintf("field(%v)", fv.conf.Name) }
func (fv *fieldValue) Type() string         { return "field" }
func (fv *fieldValue) Freeze()              {}
func (fv *fieldValue) Truth() starlark.Bool { return starlark.True }
func (fv *fieldValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: field")
}

// registerValue is the opaque result of the register() builtin.
type registerValue struct {
	name string
	conf register.Config
}

var _ starlark.Value = (*registerValue)(nil)

func (rv *registerValue) String() string       { return fmt.Sprintf("register(%v)", rv.name) }
func (rv *registerValue) Type() string         { return "register" }
func (rv *registerValue) Freeze()              {}
func (rv *registerValue) Truth() starlark.Bool { return starlark.True }
func (rv *registerValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: register")
}

// stField implements the field() builtin.
func stField(thread *starlark.Thread, b *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var name, mode, follows, clearedBy, setBy string
	var bits starlark.Value
	var reset uint64

	err = starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name,
		"bits", &bits,
		"reset?", &reset,
		"mode?", &mode,
		"follows?", &follows,
		"cleared_by?", &clearedBy,
		"set_by?", &setBy,
	)
	if err != nil {
		return
	}

	first, last, err := bitsOf(name, bits)
	if err != nil {
		return
	}

	rw, err := register.ParseRwMode(mode)
	if err != nil {
		return
	}

	value = &fieldValue{
		conf: register.BitfieldConfig{
			Name:       name,
			FirstBit:   first,
			LastBit:    last,
			ResetValue: reset,
			Mode:       rw,
			Follows:    follows,
			ClearedBy:  clearedBy,
			SetBy:      setBy,
		},
	}
	return
}

// stRegister implements the register() builtin.
func stRegister(thread *starlark.Thread, b *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var name, mode string
	var offset, sizeBits, reset, readable, writable, accessFlags uint64
	var fields *starlark.List

	err = starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name,
		"offset", &offset,
		"size_bits?", &sizeBits,
		"reset?", &reset,
		"readable?", &readable,
		"writable?", &writable,
		"access_flags?", &accessFlags,
		"mode?", &mode,
		"fields?", &fields,
	)
	if err != nil {
		return
	}

	rw, err := register.ParseRwMode(mode)
	if err != nil {
		return
	}

	conf := register.Config{
		Offset:       uint32(offset),
		SizeBits:     uint(sizeBits),
		ResetValue:   reset,
		ReadableBits: readable,
		WritableBits: writable,
		AccessFlags:  uint32(accessFlags),
		Mode:         rw,
	}

	if fields != nil {
		for fv := range starlark.Elements(fields) {
			field, ok := fv.(*fieldValue)
			if !ok {
				err = ErrValueExpected{Want: "field", Got: fv.Type()}
				return
			}
			conf.Bitfields = append(conf.Bitfields, field.conf)
		}
	}

	value = &registerValue{name: name, conf: conf}
	return
}

// stPeripheral implements the peripheral() builtin. The peripheral is
// realized before it is recorded, so configuration errors carry the
// position of the call.
func (lay *Layout) stPeripheral(thread *starlark.Thread, b *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var name string
	var base, size, registerBits uint64
	var bigEndian bool
	var registers *starlark.List

	err = starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name,
		"base?", &base,
		"size?", &size,
		"register_bits?", &registerBits,
		"big_endian?", &bigEndian,
		"registers?", &registers,
	)
	if err != nil {
		return
	}

	p := &periph.Peripheral{
		Name:         name,
		MmioBase:     base,
		MmioSize:     size,
		RegisterBits: uint(registerBits),
		BigEndian:    bigEndian,
	}

	if registers != nil {
		for rv := range starlark.Elements(registers) {
			reg, ok := rv.(*registerValue)
			if !ok {
				err = ErrValueExpected{Want: "register", Got: rv.Type()}
				return
			}
			_, err = p.Add(reg.name, reg.conf)
			if err != nil {
				return
			}
		}
	}

	err = p.Realize()
	if err != nil {
		return
	}

	lay.Peripherals = append(lay.Peripherals, p)

	value = starlark.None
	return
}

// bitsOf decodes a field bits= value: an int position, or a list of one
// or two int positions.
func bitsOf(name string, bits starlark.Value) (first uint, last uint, err error) {
	var positions []uint

	switch value := bits.(type) {
	case starlark.Int:
		u, ok := value.Uint64()
		if !ok {
			err = ErrBitsInvalid(name)
			return
		}
		positions = []uint{uint(u)}
	case starlark.Indexable:
		for n := range value.Len() {
			pos, ok := value.Index(n).(starlark.Int)
			if !ok {
				err = ErrBitsInvalid(name)
				return
			}
			u, ok := pos.Uint64()
			if !ok {
				err = ErrBitsInvalid(name)
				return
			}
			positions = append(positions, uint(u))
		}
	default:
		err = ErrBitsInvalid(name)
		return
	}

	switch len(positions) {
	case 1:
		first = positions[0]
		last = positions[0]
	case 2:
		first = positions[0]
		last = positions[1]
	default:
		err = ErrBitsInvalid(name)
	}
	return
}
