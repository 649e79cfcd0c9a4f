package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoBits_Follows(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "mirror", Config{
		SizeBits: 8,
		Bitfields: []BitfieldConfig{
			{Name: "a", FirstBit: 0, LastBit: 1},
			{Name: "b", FirstBit: 4, LastBit: 5, Follows: "a"},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	// The b bits always mirror the a bits.
	reg.Write(1, 0, 0b00000010)
	assert.Equal(uint64(0b00100010), reg.Value())

	reg.Write(1, 0, 0b00000001)
	assert.Equal(uint64(0b00010001), reg.Value())

	// Stale b bits are cleared before mirroring.
	reg.Write(1, 0, 0b00110000)
	assert.Equal(uint64(0b00000000), reg.Value())
}

func TestAutoBits_FollowsRightShift(t *testing.T) {
	assert := assert.New(t)

	// The dependent field sits below its target, exercising the
	// negative-shift direction.
	reg, err := New(nil, "mirror", Config{
		SizeBits: 8,
		Bitfields: []BitfieldConfig{
			{Name: "a", FirstBit: 4, LastBit: 5},
			{Name: "b", FirstBit: 0, LastBit: 1, Follows: "a"},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	reg.Write(1, 0, 0b00100000)
	assert.Equal(uint64(0b00100010), reg.Value())
}

func TestAutoBits_ClearedBy(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "ack", Config{
		SizeBits: 8,
		Bitfields: []BitfieldConfig{
			{Name: "status", FirstBit: 0, ClearedBy: "flag"},
			{Name: "flag", FirstBit: 7},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	// Writing flag and status together clears status, keeps flag.
	reg.Write(1, 0, 0b10000001)
	assert.Equal(uint64(0b10000000), reg.Value())

	// Without flag, status writes normally.
	reg.Write(1, 0, 0b00000001)
	assert.Equal(uint64(0b00000001), reg.Value())
}

func TestAutoBits_SetBy(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "latch", Config{
		SizeBits: 8,
		Bitfields: []BitfieldConfig{
			{Name: "en", FirstBit: 0},
			{Name: "done", FirstBit: 3, SetBy: "en"},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	// Setting en sets done.
	reg.Write(1, 0, 0b00000001)
	assert.Equal(uint64(0b00001001), reg.Value())

	// Clearing en leaves done alone.
	reg.Write(1, 0, 0b00001000)
	assert.Equal(uint64(0b00001000), reg.Value())
}

func TestAutoBits_FollowsBeforeClearedBy(t *testing.T) {
	assert := assert.New(t)

	// c is cleared by b, and b mirrors a: the cleared-by rule must
	// observe the freshly mirrored b bits.
	reg, err := New(nil, "chain", Config{
		SizeBits: 8,
		Bitfields: []BitfieldConfig{
			{Name: "a", FirstBit: 0},
			{Name: "b", FirstBit: 4, Follows: "a"},
			{Name: "c", FirstBit: 5, ClearedBy: "b"},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	reg.Write(1, 0, 0b00100001)
	assert.Equal(uint64(0b00010001), reg.Value())
}

func TestAutoBits_Grouping(t *testing.T) {
	assert := assert.New(t)

	// Two follows relations at the same shift distance merge into a
	// single rule whose mask covers both targets.
	reg, err := New(nil, "merged", Config{
		SizeBits: 8,
		Bitfields: []BitfieldConfig{
			{Name: "a", FirstBit: 0, LastBit: 1},
			{Name: "d", FirstBit: 2, LastBit: 3},
			{Name: "b", FirstBit: 4, LastBit: 5, Follows: "a"},
			{Name: "e", FirstBit: 6, LastBit: 7, Follows: "d"},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	assert.Equal(1, len(reg.autoBits))
	assert.Equal(uint64(0b00001111), reg.autoBits[0].Mask)
	assert.Equal(4, reg.autoBits[0].Shift)
	assert.Equal(AUTO_FOLLOWS, reg.autoBits[0].Kind)

	reg.Write(1, 0, 0b00001001)
	assert.Equal(uint64(0b10011001), reg.Value())
}

func TestAutoBits_RuleOrder(t *testing.T) {
	assert := assert.New(t)

	// Rules sort by kind first, then ascending shift magnitude.
	reg, err := New(nil, "ordered", Config{
		SizeBits: 16,
		Bitfields: []BitfieldConfig{
			{Name: "a", FirstBit: 0},
			{Name: "far", FirstBit: 9, Follows: "a"},
			{Name: "near", FirstBit: 2, Follows: "a"},
			{Name: "ack", FirstBit: 1, ClearedBy: "a"},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	assert.Equal(3, len(reg.autoBits))
	assert.Equal(autoRule{Mask: 0b1, Shift: 2, Kind: AUTO_FOLLOWS}, reg.autoBits[0])
	assert.Equal(autoRule{Mask: 0b1, Shift: 9, Kind: AUTO_FOLLOWS}, reg.autoBits[1])
	assert.Equal(autoRule{Mask: 0b1, Shift: 1, Kind: AUTO_CLEARED_BY}, reg.autoBits[2])
}

func TestAutoBits_RelationMissing(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		Conf BitfieldConfig
		Kind AutoKind
	}){
		{Conf: BitfieldConfig{Name: "f", FirstBit: 4, Follows: "ghost"}, Kind: AUTO_FOLLOWS},
		{Conf: BitfieldConfig{Name: "f", FirstBit: 4, ClearedBy: "ghost"}, Kind: AUTO_CLEARED_BY},
		{Conf: BitfieldConfig{Name: "f", FirstBit: 4, SetBy: "ghost"}, Kind: AUTO_SET_BY},
	}

	for _, testcase := range table {
		reg, err := New(nil, "orphan", Config{
			Bitfields: []BitfieldConfig{
				{Name: "a", FirstBit: 0},
				testcase.Conf,
			},
		})
		assert.NoError(err)

		err = reg.Realize()
		assert.ErrorIs(err, ErrRelationMissing{}, "%+v", testcase)
		assert.Contains(err.Error(), testcase.Kind.String(), "%+v", testcase)
		assert.Contains(err.Error(), "ghost", "%+v", testcase)
	}
}

// SetBy resolves its own target name, not the cleared-by name.
func TestAutoBits_SetByOwnTarget(t *testing.T) {
	assert := assert.New(t)

	reg, err := New(nil, "latch", Config{
		SizeBits: 8,
		Bitfields: []BitfieldConfig{
			{Name: "en", FirstBit: 0},
			{Name: "done", FirstBit: 3, SetBy: "en", ClearedBy: ""},
		},
	})
	assert.NoError(err)
	assert.NoError(reg.Realize())

	assert.Equal(1, len(reg.autoBits))
	assert.Equal(AUTO_SET_BY, reg.autoBits[0].Kind)
	assert.Equal(uint64(0b1), reg.autoBits[0].Mask)
}
