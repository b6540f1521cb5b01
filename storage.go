package depot

import (
	"math/bits"
	"reflect"

	"github.com/TheBitDrifter/table"
	"github.com/rs/zerolog"
)

var _ Storage = &storage{}

type storage struct {
	cfg    Config
	log    zerolog.Logger
	schema table.Schema

	gens []int32
	free []uint32

	// masks holds maskWords words per entity index.
	masks     []uint64
	maskWords int

	pools       []AnyPool
	poolsByType map[reflect.Type]AnyPool
	poolList    []AnyPool

	iterators Cache[shapeKey, Iterator]
}

// StorageOption customizes a storage built by Factory.NewStorage.
type StorageOption func(*storage)

func WithConfig(cfg Config) StorageOption {
	return func(s *storage) {
		s.cfg = cfg
	}
}

func WithLogger(logger zerolog.Logger) StorageOption {
	return func(s *storage) {
		s.log = logger
	}
}

func newStorage(schema table.Schema, opts ...StorageOption) Storage {
	sto := &storage{
		cfg:         DefaultConfig(),
		log:         zerolog.Nop(),
		schema:      schema,
		poolsByType: make(map[reflect.Type]AnyPool),
	}
	for _, opt := range opts {
		opt(sto)
	}
	if err := sto.cfg.Validate(); err != nil {
		panic(err)
	}
	sto.gens = make([]int32, 0, sto.cfg.EntityCapacity)
	sto.iterators = FactoryNewCache[shapeKey, Iterator](sto.cfg.MaxCachedIterators)
	return sto
}

func (sto *storage) Config() Config {
	return sto.cfg
}

func (sto *storage) Logger() *zerolog.Logger {
	return &sto.log
}

func (sto *storage) NewEntity() Entity {
	var index uint32
	if n := len(sto.free); n > 0 {
		index = sto.free[n-1]
		sto.free = sto.free[:n-1]
	} else {
		index = uint32(len(sto.gens))
		if len(sto.gens) == cap(sto.gens) {
			sto.growEntities()
		}
		sto.gens = sto.gens[:index+1]
	}
	gen := nextGen(sto.gens[index])
	sto.gens[index] = gen
	return Entity{index: index, gen: gen}
}

// growEntities doubles entity capacity and resizes every mask row and every
// pool's sparse array to match.
func (sto *storage) growEntities() {
	newCap := max(2*cap(sto.gens), sto.cfg.EntityCapacity)
	gens := make([]int32, len(sto.gens), newCap)
	copy(gens, sto.gens)
	sto.gens = gens

	if sto.maskWords > 0 {
		masks := make([]uint64, newCap*sto.maskWords)
		copy(masks, sto.masks)
		sto.masks = masks
	}
	for _, pool := range sto.poolList {
		pool.Resize(newCap)
	}
	sto.log.Debug().Int("capacity", newCap).Msg("entity capacity grown")
}

func (sto *storage) DestroyEntity(e Entity) {
	if validate && !sto.Alive(e) {
		panic(StaleEntityError{Entity: e})
	}
	row := sto.row(e)
	for w, word := range row {
		for word != 0 {
			id := uint32(w*wordBits + bits.TrailingZeros64(word))
			word &= word - 1
			sto.pools[id].Remove(e)
		}
	}
	sto.gens[e.index] = -sto.gens[e.index]
	sto.free = append(sto.free, e.index)
}

func (sto *storage) Alive(e Entity) bool {
	return int(e.index) < len(sto.gens) && e.gen > 0 && sto.gens[e.index] == e.gen
}

func (sto *storage) Gen(index uint32) int32 {
	if int(index) >= len(sto.gens) {
		return 0
	}
	return sto.gens[index]
}

func (sto *storage) EntityCap() int {
	return cap(sto.gens)
}

func (sto *storage) Pool(t reflect.Type) (AnyPool, bool) {
	pool, ok := sto.poolsByType[t]
	return pool, ok
}

func (sto *storage) PoolByID(id uint32) (AnyPool, bool) {
	if int(id) >= len(sto.pools) || sto.pools[id] == nil {
		return nil, false
	}
	return sto.pools[id], true
}

// Pools returns the registered pools in registration order.
func (sto *storage) Pools() []AnyPool {
	return sto.poolList
}

// registerPool gives the pool the next id of this storage and records its
// element type in the schema.
func (sto *storage) registerPool(elem table.ElementType, pool AnyPool) {
	id := uint32(len(sto.poolList))
	if int(id) >= sto.cfg.MaxPools {
		panic(PoolLimitError{Type: pool.ItemType(), ID: id, MaxPools: sto.cfg.MaxPools})
	}
	sto.schema.Register(elem)
	if words := wordsFor(id); words > sto.maskWords {
		sto.widenMasks(words)
	}
	for int(id) >= len(sto.pools) {
		sto.pools = append(sto.pools, nil)
	}
	pool.Init(id, sto)
	sto.pools[id] = pool
	sto.poolsByType[pool.ItemType()] = pool
	sto.poolList = append(sto.poolList, pool)
	sto.log.Debug().
		Uint32("pool_id", id).
		Int("schema_registered", sto.schema.Registered()).
		Str("component", pool.ItemType().String()).
		Msg("pool registered")
}

// widenMasks re-lays every mask row with the new word count, keeping the
// existing bits.
func (sto *storage) widenMasks(words int) {
	masks := make([]uint64, cap(sto.gens)*words)
	if sto.maskWords > 0 {
		for i := 0; i < cap(sto.gens); i++ {
			copy(masks[i*words:], sto.masks[i*sto.maskWords:(i+1)*sto.maskWords])
		}
	}
	sto.log.Debug().Int("from", sto.maskWords).Int("to", words).Msg("entity masks widened")
	sto.masks = masks
	sto.maskWords = words
}

func (sto *storage) MaskWordCount() int {
	return sto.maskWords
}

func (sto *storage) row(e Entity) []uint64 {
	start := int(e.index) * sto.maskWords
	return sto.masks[start : start+sto.maskWords]
}

// Mask returns the live mask row of the entity. Callers must not keep it
// across pool registrations.
func (sto *storage) Mask(e Entity) []uint64 {
	return sto.row(e)
}

func (sto *storage) SetBit(e Entity, poolID uint32) {
	sto.masks[int(e.index)*sto.maskWords+int(poolID/wordBits)] |= 1 << (poolID % wordBits)
}

func (sto *storage) ClearBit(e Entity, poolID uint32) {
	sto.masks[int(e.index)*sto.maskWords+int(poolID/wordBits)] &^= 1 << (poolID % wordBits)
}

func (sto *storage) Compatible(e Entity, inc []MaskFragment) bool {
	return includesAll(sto.row(e), inc)
}

func (sto *storage) CompatibleExcluding(e Entity, inc, exc []MaskFragment) bool {
	row := sto.row(e)
	return includesAll(row, inc) && !intersectsAny(row, exc)
}
