package depot

import "github.com/TheBitDrifter/mask"

const wordBits = 64

// maxKeyBits is the width of the predicate keys built with mask.Mask: 64
// by default, wider with the mask package's m256, m512 or m1024 build tags.
const maxKeyBits = mask.MaxBits

// MaskFragment is one non-zero word of a predicate mask together with the
// index of the word it belongs to.
type MaskFragment struct {
	Word int
	Bits uint64
}

// wordsFor returns the number of mask words needed to hold bit id.
func wordsFor(id uint32) int {
	return int(id/wordBits) + 1
}

// buildFragments folds the pool ids into a words-wide mask and keeps only the
// words that carry bits.
func buildFragments(ids []uint32, words int) []MaskFragment {
	full := make([]uint64, words)
	for _, id := range ids {
		full[id/wordBits] |= 1 << (id % wordBits)
	}
	fragments := make([]MaskFragment, 0, len(ids))
	for i, bits := range full {
		if bits != 0 {
			fragments = append(fragments, MaskFragment{Word: i, Bits: bits})
		}
	}
	return fragments
}

// hasDuplicate reports whether an id appears twice. Ids must be below
// maxKeyBits.
func hasDuplicate(ids []uint32) bool {
	var seen mask.Mask
	for _, id := range ids {
		if seen.Contains(id) {
			return true
		}
		seen.Mark(id)
	}
	return false
}

func buildKey(ids []uint32) mask.Mask {
	var m mask.Mask
	for _, id := range ids {
		m.Mark(id)
	}
	return m
}

// shapeKey identifies a predicate shape: which pools are included and which
// are excluded.
type shapeKey struct {
	inc mask.Mask
	exc mask.Mask
}

func includesAll(row []uint64, fragments []MaskFragment) bool {
	for _, f := range fragments {
		if row[f.Word]&f.Bits != f.Bits {
			return false
		}
	}
	return true
}

func intersectsAny(row []uint64, fragments []MaskFragment) bool {
	for _, f := range fragments {
		if row[f.Word]&f.Bits != 0 {
			return true
		}
	}
	return false
}
