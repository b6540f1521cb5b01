package depot

import (
	"io"
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/rs/zerolog"
)

// Storage owns entity identity and the per-entity pool masks.
type Storage interface {
	NewEntity() Entity
	DestroyEntity(Entity)
	Alive(Entity) bool
	Gen(index uint32) int32
	EntityCap() int

	Pool(reflect.Type) (AnyPool, bool)
	PoolByID(uint32) (AnyPool, bool)
	Pools() []AnyPool

	MaskWordCount() int
	Mask(Entity) []uint64
	SetBit(e Entity, poolID uint32)
	ClearBit(e Entity, poolID uint32)
	Compatible(e Entity, inc []MaskFragment) bool
	CompatibleExcluding(e Entity, inc, exc []MaskFragment) bool

	Config() Config
	Logger() *zerolog.Logger
}

// AnyPool is the type-erased view of a component pool used by tooling that
// does not know the component type statically.
type AnyPool interface {
	Init(id uint32, sto Storage)
	ID() uint32
	ItemType() reflect.Type
	Storage() Storage

	Has(Entity) bool
	Remove(Entity)
	AddRaw(Entity)
	Raw(Entity) any
	SetRaw(Entity, any)
	Copy(src, dst Entity)
	Serialize(Entity, io.Writer) (bool, error)
	Deserialize(Entity, io.Reader) (bool, error)

	Len() int
	Entities() []Entity
	All() iter.Seq[Entity]

	Resize(cap int)
	AddBlocker(amount int)
	Blockers() int
}

// PoolRef resolves a pool against a storage, creating it when needed.
type PoolRef func(Storage) AnyPool

type Iterator interface {
	mask.Maskable
	ExcludeMask() mask.Mask
	Init(Storage) Iterator
	Storage() Storage
	Has(Entity) bool
	LenSlow() int
	IsEmptySlow() bool
	FirstSlow() (Entity, bool)
	Includes() []AnyPool
	Excludes() []AnyPool
	IncludeFragments() []MaskFragment
	ExcludeFragments() []MaskFragment
	MinPool() (AnyPool, int)
	All() iter.Seq[Entity]
	Cursor() *Cursor
	AddBlocker(amount int)
}

type ResetHandler[T any] func(c *T)

type CopyHandler[T any] func(src, dst *T)

type SerializeHandler[T any] func(c *T, w io.Writer) error

type DeserializeHandler[T any] func(c *T, r io.Reader) error

// HandlerSetter is the marker capability a component type implements (on its
// pointer) to install its own hooks when its pool is created.
type HandlerSetter[T any] interface {
	SetHandlers(pool *Pool[T])
}

type Cache[K comparable, T any] interface {
	GetIndex(K) (int, bool)
	GetItem(int) *T
	Register(K, T) (int, error)
	Len() int
	Clear()
}

// Cursor walks the entities matched by an Iterator one Next at a time.
// Warning: internal Dependencies abound!
type Cursor struct {
	it *iterator

	driver  AnyPool
	index   int
	current Entity
	open    bool
}

type SimpleCache[K comparable, T any] struct {
	items       []T
	itemIndices map[K]int
	maxCapacity int
}
