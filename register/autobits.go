package register

// AutoKind is a derived-bit rule kind.
type AutoKind int

//go:generate go tool stringer -linecomment -type=AutoKind
const (
	AUTO_FOLLOWS    = AutoKind(0) // follows
	AUTO_CLEARED_BY = AutoKind(1) // cleared by
	AUTO_SET_BY     = AutoKind(2) // set by
)

// autoRule is a single derived-bit rule: the target mask, the signed
// shift from the target bits to the dependent bits, and the rule kind.
// Rules sharing kind, shift distance and direction are merged, so one
// shift and mask satisfies every bitfield at that distance.
type autoRule struct {
	Mask  uint64
	Shift int
	Kind  AutoKind
}

// autoAccum accumulates target masks per shift distance and direction
// while scanning the bitfield relations.
type autoAccum struct {
	left  [64]uint64
	right [64]uint64
}

func (acc *autoAccum) add(delta int, mask uint64) {
	if delta > 0 {
		acc.left[delta] |= mask
	} else if delta < 0 {
		acc.right[-delta] |= mask
	}
	// A zero distance needs no derivation.
}

// buildAutoBits translates the bitfield relations into the ordered rule
// table. Follows rules come first so that cleared-by/set-by rules observe
// freshly mirrored bits, then cleared-by, then set-by, each in ascending
// shift magnitude.
func (reg *Register) buildAutoBits() (rules []autoRule, err error) {
	var accum [3]autoAccum

	for _, bifi := range reg.fields {
		kind := AutoKind(-1)
		target := ""
		switch {
		case bifi.Follows != "":
			kind = AUTO_FOLLOWS
			target = bifi.Follows
		case bifi.ClearedBy != "":
			kind = AUTO_CLEARED_BY
			target = bifi.ClearedBy
		case bifi.SetBy != "":
			kind = AUTO_SET_BY
			target = bifi.SetBy
		default:
			continue
		}

		found, ok := reg.Field(target)
		if !ok {
			err = ErrRelationMissing{
				Kind:     kind,
				Field:    bifi.Name,
				Register: reg.Name,
				Target:   target,
			}
			return
		}

		// Positive distance shifts the target bits left into the
		// dependent field, negative shifts right.
		delta := int(bifi.FirstBit) - int(found.FirstBit)
		accum[kind].add(delta, found.Mask)
	}

	for kind := AUTO_FOLLOWS; kind <= AUTO_SET_BY; kind++ {
		acc := &accum[kind]
		for shift := 1; shift < 64; shift++ {
			if acc.left[shift] != 0 {
				rules = append(rules, autoRule{Mask: acc.left[shift], Shift: shift, Kind: kind})
			}
			if acc.right[shift] != 0 {
				rules = append(rules, autoRule{Mask: acc.right[shift], Shift: -shift, Kind: kind})
			}
		}
	}

	return
}

// applyAutoBits evaluates the rule table against a merged write value.
func (reg *Register) applyAutoBits(value uint64) (out uint64) {
	out = value

	for _, rule := range reg.autoBits {
		switch rule.Kind {
		case AUTO_FOLLOWS:
			// Clear the dependent bits, then copy the target bits in.
			if rule.Shift > 0 {
				out &= ^(rule.Mask << uint(rule.Shift))
				out |= (out & rule.Mask) << uint(rule.Shift)
			} else {
				out &= ^(rule.Mask >> uint(-rule.Shift))
				out |= (out & rule.Mask) >> uint(-rule.Shift)
			}
		case AUTO_CLEARED_BY:
			// Clear the dependent bits where the target bits are set.
			if rule.Shift > 0 {
				out &= ^((out & rule.Mask) << uint(rule.Shift))
			} else {
				out &= ^((out & rule.Mask) >> uint(-rule.Shift))
			}
		case AUTO_SET_BY:
			// Set the dependent bits where the target bits are set.
			if rule.Shift > 0 {
				out |= (out & rule.Mask) << uint(rule.Shift)
			} else {
				out |= (out & rule.Mask) >> uint(-rule.Shift)
			}
		}
	}

	return
}
