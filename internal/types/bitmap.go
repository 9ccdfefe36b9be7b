package types

import "math/bits"

const (
	// ClaimBitmapWords is the number of 64-bit words backing a ClaimBitmap.
	ClaimBitmapWords = 4
	// MaxClaimTypes is the width of the outstanding-claim bitmap. The
	// 8-bit claim-type namespace is a domain invariant, so the bitmap is a
	// fixed 256-bit word rather than a growable set.
	MaxClaimTypes = ClaimBitmapWords * 64
)

// ClaimBitmap is the per-position set of outstanding claim flags. Bit i is
// set iff claim type i has been created for the position and not yet
// destroyed. The zero value is the empty set. All methods are pure and
// return a new value.
type ClaimBitmap [ClaimBitmapWords]uint64

func (b ClaimBitmap) word(id ClaimTypeID) (int, uint64) {
	return int(id) / 64, uint64(1) << (uint(id) % 64)
}

// IsSet reports whether the flag for the given claim type is set.
func (b ClaimBitmap) IsSet(id ClaimTypeID) bool {
	w, mask := b.word(id)
	return b[w]&mask != 0
}

// Set returns a copy of the bitmap with the flag for the given claim type
// forced to 1.
func (b ClaimBitmap) Set(id ClaimTypeID) ClaimBitmap {
	w, mask := b.word(id)
	b[w] |= mask
	return b
}

// Clear returns a copy of the bitmap with the flag for the given claim type
// forced to 0.
func (b ClaimBitmap) Clear(id ClaimTypeID) ClaimBitmap {
	w, mask := b.word(id)
	b[w] &^= mask
	return b
}

// IsEmpty reports whether no claim is outstanding. A position with an empty
// bitmap is unlocked.
func (b ClaimBitmap) IsEmpty() bool {
	return b == ClaimBitmap{}
}

// Bits returns the set claim-type ids in ascending order.
func (b ClaimBitmap) Bits() []ClaimTypeID {
	count := 0
	for _, w := range b {
		count += bits.OnesCount64(w)
	}
	if count == 0 {
		return nil
	}

	ids := make([]ClaimTypeID, 0, count)
	for i, w := range b {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			ids = append(ids, ClaimTypeID(i*64+bit))
			w &= w - 1
		}
	}
	return ids
}
