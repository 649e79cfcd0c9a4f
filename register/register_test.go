package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// parent is a test double for the enclosing peripheral defaults.
type parent struct {
	sizeBits  uint
	bigEndian bool
}

func (p *parent) RegisterSizeBits() uint { return p.sizeBits }
func (p *parent) IsBigEndian() bool      { return p.bigEndian }

func TestRegister_Defaults(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "plain", Config{})
	assert.NoError(err)
	assert.Equal(DEFAULT_SIZE_BITS, reg.SizeBits)
	assert.False(reg.IsBigEndian())
	assert.True(reg.IsReadable)
	assert.True(reg.IsWritable)

	assert.NoError(reg.Realize())

	// No declared structure: the whole register width is accessible.
	assert.Equal(uint64(0xffffffff), reg.ReadableBits)
	assert.Equal(uint64(0xffffffff), reg.WritableBits)
}

func TestRegister_ParentDefaults(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(&parent{sizeBits: 16, bigEndian: true}, "inherited", Config{})
	assert.NoError(err)
	assert.Equal(uint(16), reg.SizeBits)
	assert.True(reg.IsBigEndian())

	// An explicit width wins over the parent default.
	reg, err = New(&parent{sizeBits: 16}, "explicit", Config{SizeBits: 64})
	assert.NoError(err)
	assert.Equal(uint(64), reg.SizeBits)
}

func TestRegister_SizeInvalid(t *testing.T) {
	assert := assert.New(t)

	for _, sizeBits := range []uint{12, 33, 72, 128} {
		_, err := New(nil, "odd", Config{SizeBits: sizeBits})
		assert.ErrorIs(err, ErrSizeInvalid, "size_bits %v", sizeBits)
	}
}

func TestRegister_MaskAggregation(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "status", Config{
		ReadableBits: 0x0000f000,
		WritableBits: 0x000f0000,
		Bitfields: []BitfieldConfig{
			{Name: "rw", FirstBit: 0, LastBit: 3},
			{Name: "ro", FirstBit: 4, LastBit: 7, Mode: RW_MODE_READ},
			{Name: "wo", FirstBit: 8, LastBit: 11, Mode: RW_MODE_WRITE},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	// Bitfields contribute their masks on top of the configured ones.
	assert.Equal(uint64(0x0000f0ff), reg.ReadableBits)
	assert.Equal(uint64(0x000f0f0f), reg.WritableBits)
}

func TestRegister_ModeOverride(t *testing.T) {
	assert := assert.New(t)

	// A non-readable register forces the readable mask to zero, even
	// with readable bitfields declared.
	reg, err := New(nil, "wo", Config{
		Mode: RW_MODE_WRITE,
		Bitfields: []BitfieldConfig{
			{Name: "f", FirstBit: 0, LastBit: 7, Mode: RW_MODE_RW},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())
	assert.Equal(uint64(0), reg.ReadableBits)
	assert.Equal(uint64(0xff), reg.WritableBits)

	reg, err = New(nil, "ro", Config{Mode: RW_MODE_READ})
	assert.NoError(err)
	assert.NoError(reg.Realize())
	assert.Equal(uint64(0xffffffff), reg.ReadableBits)
	assert.Equal(uint64(0), reg.WritableBits)
}

func TestRegister_MaskWidthClamp(t *testing.T) {
	assert := assert.New(t)

	// Masks never exceed the register width.
	reg, err := New(nil, "narrow", Config{
		SizeBits:     8,
		ReadableBits: 0xffffffffffffffff,
		WritableBits: 0xffffff00,
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())
	assert.Equal(uint64(0xff), reg.ReadableBits)
	assert.Equal(uint64(0x00), reg.WritableBits)
}

func TestRegister_Overlap(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "clash", Config{
		ReadableBits: 0x00ff0000,
		Bitfields: []BitfieldConfig{
			{Name: "low", FirstBit: 0, LastBit: 7},
			{Name: "mid", FirstBit: 4, LastBit: 11},
		},
	})
	assert.NoError(err)

	err = reg.Realize()
	assert.ErrorIs(err, ErrFieldOverlap{})
	assert.Contains(err.Error(), "mid")
	assert.Contains(err.Error(), "clash")

	// A failed Realize leaves no partial mask state behind.
	assert.Equal(uint64(0x00ff0000), reg.ReadableBits)
	assert.Equal(uint64(0), reg.WritableBits)
	assert.False(reg.realized)
	assert.Panics(func() { reg.Read(1, 0) })
}

func TestRegister_ResetComposition(t *testing.T) {
	assert := assert.New(t)

	// A bitfield reset value replaces the register reset bits in its
	// range; uncovered bits keep the configured value.
	reg, err := New(nil, "ctrl", Config{
		ResetValue: 0xffffffff,
		Bitfields: []BitfieldConfig{
			{Name: "low", FirstBit: 0, LastBit: 7, ResetValue: 0x12},
			{Name: "high", FirstBit: 24, LastBit: 31},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	assert.Equal(uint64(0x00ffff12), reg.ResetValue)

	// Value() additionally masks to the readable bits, which here are
	// only the two declared fields.
	assert.Equal(uint64(0x00000012), reg.Value())
}

func TestRegister_Reset(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "counter", Config{ResetValue: 0x1234})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	reg.Write(4, 0, 0xdeadbeef)
	assert.Equal(uint64(0xdeadbeef), reg.Value())

	reg.Reset()
	assert.Equal(uint64(0x1234), reg.Value())

	// Reset is idempotent.
	reg.Reset()
	assert.Equal(uint64(0x1234), reg.Value())
}

func TestRegister_ValueMasked(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "secret", Config{
		ResetValue:   0xffff,
		ReadableBits: 0x00ff,
		WritableBits: 0xffff,
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	assert.Equal(uint64(0x00ff), reg.Value())
}

func TestRegister_RealizeOnce(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "once", Config{})
	assert.NoError(err)
	assert.NoError(reg.Realize())
	assert.ErrorIs(reg.Realize(), ErrRealized)
}

func TestRegister_Defines(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "ctrl", Config{
		Offset: 0x08,
		Bitfields: []BitfieldConfig{
			{Name: "en", FirstBit: 0},
			{Name: "div", FirstBit: 4, LastBit: 7},
		},
	})
	assert.NoError(err)

	defines := map[string]string{}
	for key, value := range reg.Defines() {
		defines[key] = value
	}

	assert.Equal("0x08", defines["CTRL"])
	assert.Equal("0x1", defines["CTRL_EN_MASK"])
	assert.Equal("0", defines["CTRL_EN_SHIFT"])
	assert.Equal("0xf0", defines["CTRL_DIV_MASK"])
	assert.Equal("4", defines["CTRL_DIV_SHIFT"])
}

func TestRwMode_Parse(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		Text string
		Mode RwMode
		Bad  bool
	}){
		{Text: "", Mode: RwMode(0)},
		{Text: "r", Mode: RW_MODE_READ},
		{Text: "w", Mode: RW_MODE_WRITE},
		{Text: "rw", Mode: RW_MODE_RW},
		{Text: "wr", Mode: RW_MODE_RW},
		{Text: "x", Bad: true},
	}

	for _, testcase := range table {
		mode, err := ParseRwMode(testcase.Text)
		if testcase.Bad {
			assert.ErrorIs(err, ErrModeInvalid(""), "%+v", testcase)
			continue
		}
		assert.NoError(err, "%+v", testcase)
		assert.Equal(testcase.Mode, mode, "%+v", testcase)
	}
}
