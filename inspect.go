package depot

import (
	"math/bits"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
)

// EntityPools returns the pools holding a component for e, in id order.
func EntityPools(sto Storage, e Entity) []AnyPool {
	if validate && !sto.Alive(e) {
		panic(StaleEntityError{Entity: e})
	}
	var pools []AnyPool
	for w, word := range sto.Mask(e) {
		for word != 0 {
			id := uint32(w*wordBits + bits.TrailingZeros64(word))
			word &= word - 1
			if pool, ok := sto.PoolByID(id); ok {
				pools = append(pools, pool)
			}
		}
	}
	return pools
}

// EntityComponents returns copies of every component e holds, in pool id
// order.
func EntityComponents(sto Storage, e Entity) []any {
	pools := EntityPools(sto, e)
	components := make([]any, len(pools))
	for i, pool := range pools {
		components[i] = pool.Raw(e)
	}
	return components
}

// EntityMask copies the entity's mask row into a mask.Mask.
func EntityMask(sto Storage, e Entity) mask.Mask {
	var m mask.Mask
	for _, pool := range EntityPools(sto, e) {
		m.Mark(pool.ID())
	}
	return m
}

// Collect runs one pass of it and returns the matched entities in
// enumeration order.
func Collect(it Iterator) []Entity {
	return iter_util.Collect(it.All())
}

// MatchBitmap runs one pass of it and returns the indices of the matched
// entities.
func MatchBitmap(it Iterator) *roaring.Bitmap {
	bm := roaring.New()
	for e := range it.All() {
		bm.Add(e.index)
	}
	return bm
}

// PoolBitmap returns the entity indices held by pool.
func PoolBitmap(pool AnyPool) *roaring.Bitmap {
	bm := roaring.New()
	for _, e := range pool.Entities() {
		bm.Add(e.index)
	}
	return bm
}
