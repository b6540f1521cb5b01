package depot

// Query describes a predicate shape by pool references. Iterator hands out
// one initialized iterator per shape and storage.
type Query struct {
	includes []PoolRef
	excludes []PoolRef
}

func newQuery() *Query {
	return &Query{}
}

func (q *Query) Include(refs ...PoolRef) *Query {
	q.includes = append(q.includes, refs...)
	return q
}

func (q *Query) Exclude(refs ...PoolRef) *Query {
	q.excludes = append(q.excludes, refs...)
	return q
}

func (q *Query) shape(sto Storage) shapeKey {
	return shapeKey{
		inc: buildKey(poolIDs(resolvePools(sto, q.includes))),
		exc: buildKey(poolIDs(resolvePools(sto, q.excludes))),
	}
}

// Iterator returns the storage's iterator for this shape, building and
// caching it on first use. When the cache is full the iterator is built
// uncached.
func (q *Query) Iterator(sto Storage) Iterator {
	key := q.shape(sto)
	cache := sto.(*storage).iterators
	if index, ok := cache.GetIndex(key); ok {
		return *cache.GetItem(index)
	}
	it := newIterator(q.includes, q.excludes, len(q.excludes) > 0).Init(sto)
	if _, err := cache.Register(key, it); err != nil {
		sto.Logger().Warn().Err(err).
			Int("cached", cache.Len()).
			Msg("iterator cache full, query iterator not cached")
	}
	return it
}

// Matches evaluates the shape against a single entity through its
// mask.Mask, without touching the pools' dense arrays.
func (q *Query) Matches(sto Storage, e Entity) bool {
	if !sto.Alive(e) {
		return false
	}
	key := q.shape(sto)
	m := EntityMask(sto, e)
	return m.ContainsAll(key.inc) && m.ContainsNone(key.exc)
}
