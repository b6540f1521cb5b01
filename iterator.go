package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

var _ Iterator = &iterator{}

// iterator matches entities present in every include pool and, when
// excludes is non-nil, absent from every exclude pool.
type iterator struct {
	includeRefs []PoolRef
	excludeRefs []PoolRef

	sto      Storage
	includes []AnyPool
	excludes []AnyPool

	incFragments []MaskFragment
	excFragments []MaskFragment
	incKey       mask.Mask
	excKey       mask.Mask
}

func newIterator(includes, excludes []PoolRef, withExcludes bool) *iterator {
	if validate {
		if len(includes) == 0 {
			panic(InvalidIteratorError{Reason: "include list is empty"})
		}
		if withExcludes && len(excludes) == 0 {
			panic(InvalidIteratorError{Reason: "exclude list is empty"})
		}
	}
	it := &iterator{includeRefs: includes}
	if withExcludes {
		it.excludeRefs = excludes
	}
	return it
}

// Init resolves the pools against sto, registering the missing ones, and
// builds the predicate fragments.
func (it *iterator) Init(sto Storage) Iterator {
	if validate && it.sto != nil {
		panic(AlreadyInitializedError{What: "iterator"})
	}
	it.includes = resolvePools(sto, it.includeRefs)
	incIDs := poolIDs(it.includes)
	if validate && hasDuplicate(incIDs) {
		panic(InvalidIteratorError{Reason: "a pool is included twice"})
	}
	it.incKey = buildKey(incIDs)
	var excIDs []uint32
	if it.excludeRefs != nil {
		it.excludes = resolvePools(sto, it.excludeRefs)
		excIDs = poolIDs(it.excludes)
		if validate && hasDuplicate(excIDs) {
			panic(InvalidIteratorError{Reason: "a pool is excluded twice"})
		}
		it.excKey = buildKey(excIDs)
		if validate && it.incKey.ContainsAny(it.excKey) {
			panic(InvalidIteratorError{Reason: "a pool is both included and excluded"})
		}
	}
	// Resolution may have widened the masks, so size the fragments after it.
	words := sto.MaskWordCount()
	it.incFragments = buildFragments(incIDs, words)
	if it.excludes != nil {
		it.excFragments = buildFragments(excIDs, words)
	}
	it.sto = sto
	return it
}

func resolvePools(sto Storage, refs []PoolRef) []AnyPool {
	pools := make([]AnyPool, len(refs))
	for i, ref := range refs {
		pools[i] = ref(sto)
	}
	return pools
}

func poolIDs(pools []AnyPool) []uint32 {
	ids := make([]uint32, len(pools))
	for i, pool := range pools {
		ids[i] = pool.ID()
	}
	return ids
}

func (it *iterator) checkReady() {
	if validate && it.sto == nil {
		panic(NotInitializedError{What: "iterator"})
	}
}

// Mask returns the include key.
func (it *iterator) Mask() mask.Mask {
	return it.incKey
}

// ExcludeMask returns the exclude key, empty for include-only iterators.
func (it *iterator) ExcludeMask() mask.Mask {
	return it.excKey
}

func (it *iterator) Storage() Storage {
	return it.sto
}

func (it *iterator) Includes() []AnyPool {
	return it.includes
}

func (it *iterator) Excludes() []AnyPool {
	return it.excludes
}

func (it *iterator) IncludeFragments() []MaskFragment {
	return it.incFragments
}

func (it *iterator) ExcludeFragments() []MaskFragment {
	return it.excFragments
}

func (it *iterator) matches(e Entity) bool {
	if it.excludes == nil {
		return it.sto.Compatible(e, it.incFragments)
	}
	return it.sto.CompatibleExcluding(e, it.incFragments, it.excFragments)
}

// Has reports whether a live entity satisfies the predicate.
func (it *iterator) Has(e Entity) bool {
	it.checkReady()
	return it.sto.Alive(e) && it.matches(e)
}

// MinPool returns the smallest include pool and its length. Ties go to the
// pool listed first.
func (it *iterator) MinPool() (AnyPool, int) {
	it.checkReady()
	driver := it.includes[0]
	n := driver.Len()
	for _, pool := range it.includes[1:] {
		if l := pool.Len(); l < n {
			driver, n = pool, l
		}
	}
	return driver, n
}

// All yields matching entities, walking the smallest include pool from its
// last slot down. The yielded entity may be removed from any pool during the
// walk; the pools stay blocked for everyone else until the walk ends.
func (it *iterator) All() iter.Seq[Entity] {
	it.checkReady()
	return func(yield func(Entity) bool) {
		it.AddBlocker(1)
		defer it.AddBlocker(-1)
		driver, n := it.MinPool()
		for i := n - 1; i >= 0; i-- {
			entities := driver.Entities()
			if i >= len(entities) {
				continue
			}
			e := entities[i]
			if it.matches(e) && !yield(e) {
				return
			}
		}
	}
}

func (it *iterator) LenSlow() int {
	n := 0
	for range it.All() {
		n++
	}
	return n
}

func (it *iterator) IsEmptySlow() bool {
	_, ok := it.FirstSlow()
	return !ok
}

func (it *iterator) FirstSlow() (Entity, bool) {
	for e := range it.All() {
		return e, true
	}
	return Entity{}, false
}

func (it *iterator) Cursor() *Cursor {
	it.checkReady()
	return &Cursor{it: it}
}

// AddBlocker adjusts the blocker count of every include and exclude pool.
func (it *iterator) AddBlocker(amount int) {
	for _, pool := range it.includes {
		pool.AddBlocker(amount)
	}
	for _, pool := range it.excludes {
		pool.AddBlocker(amount)
	}
}
