// Package register implements the memory-mapped peripheral register model.
//
// A Register is a fixed-width value accessed at byte granularity with
// arbitrary alignment and access size, honoring independently configured
// readable and writable bit masks. Named Bitfields partition a register
// into sub-ranges with their own access modes, and may declare derived
// relationships to sibling bitfields (follows, cleared-by, set-by) that
// are re-evaluated on every write.
//
// Construction is declarative: a Config enumerates the register and its
// bitfields, Realize() validates the configuration and aggregates masks,
// reset value and the auto-bits rule table, and afterwards the register
// serves Read/Write/Reset operations.
package register
