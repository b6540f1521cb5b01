package depot

import "github.com/TheBitDrifter/table"

type factory struct{}

var Factory factory

func (f factory) NewStorage(schema table.Schema, opts ...StorageOption) Storage {
	return newStorage(schema, opts...)
}

// NewIterator builds an include-only iterator. It must be Init'ed against a
// storage before use.
func (f factory) NewIterator(includes ...PoolRef) Iterator {
	return newIterator(includes, nil, false)
}

// NewIteratorExc builds an iterator with both include and exclude pools.
func (f factory) NewIteratorExc(includes, excludes []PoolRef) Iterator {
	return newIterator(includes, excludes, true)
}

func (f factory) NewQuery() *Query {
	return newQuery()
}

func (f factory) NewCommandBuffer(sto Storage) *CommandBuffer {
	return newCommandBuffer(sto)
}

func FactoryNewCache[K comparable, T any](cap int) Cache[K, T] {
	return &SimpleCache[K, T]{
		itemIndices: make(map[K]int),
		maxCapacity: cap,
	}
}
