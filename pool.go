package depot

import (
	"io"
	"iter"
	"reflect"

	"github.com/TheBitDrifter/table"
	"github.com/rotisserie/eris"
)

var _ AnyPool = &Pool[struct{}]{}

// Pool is the sparse-set storage for one component type. Dense slots
// [0, Len()) hold live entities and their values; the sparse array maps an
// entity index to its slot plus one.
type Pool[T any] struct {
	id       uint32
	sto      Storage
	elem     table.ElementType
	itemType reflect.Type
	initCap  int

	dense  []Entity
	data   []T
	sparse []int32
	len    int
	maxLen int

	resetHandler       ResetHandler[T]
	copyHandler        CopyHandler[T]
	serializeHandler   SerializeHandler[T]
	deserializeHandler DeserializeHandler[T]

	blockers int
}

// PoolFor returns the pool holding T in sto, creating and registering it on
// first request.
func PoolFor[T any](sto Storage) *Pool[T] {
	t := reflect.TypeFor[T]()
	if pool, ok := sto.Pool(t); ok {
		return pool.(*Pool[T])
	}
	pool := newPool[T](sto.Config().PoolCapacity)
	pool.elem = elementTypeFor[T]()
	sto.(*storage).registerPool(pool.elem, pool)
	if setter, ok := any(new(T)).(HandlerSetter[T]); ok {
		setter.SetHandlers(pool)
	}
	return pool
}

// Ref returns a PoolRef that resolves to the pool of T.
func Ref[T any]() PoolRef {
	return func(sto Storage) AnyPool {
		return PoolFor[T](sto)
	}
}

func newPool[T any](capacity int) *Pool[T] {
	return &Pool[T]{
		initCap:  capacity,
		itemType: reflect.TypeFor[T](),
	}
}

func (p *Pool[T]) Init(id uint32, sto Storage) {
	if validate && p.sto != nil {
		panic(AlreadyInitializedError{What: "pool " + p.itemType.String()})
	}
	if p.initCap <= 0 {
		p.initCap = DefaultPoolCapacity
	}
	p.id = id
	p.sto = sto
	p.dense = make([]Entity, p.initCap)
	p.data = make([]T, p.initCap)
	p.sparse = make([]int32, sto.EntityCap())
	p.len = 0
	p.maxLen = 0
	p.blockers = 0
}

func (p *Pool[T]) SetResetHandler(cb ResetHandler[T]) {
	p.resetHandler = cb
}

func (p *Pool[T]) SetCopyHandler(cb CopyHandler[T]) {
	p.copyHandler = cb
}

func (p *Pool[T]) SetSerializeHandler(cb SerializeHandler[T]) {
	p.serializeHandler = cb
}

func (p *Pool[T]) SetDeserializeHandler(cb DeserializeHandler[T]) {
	p.deserializeHandler = cb
}

func (p *Pool[T]) ID() uint32 {
	return p.id
}

func (p *Pool[T]) ItemType() reflect.Type {
	return p.itemType
}

// ElementType is the schema element of T, shared by every storage.
func (p *Pool[T]) ElementType() table.ElementType {
	return p.elem
}

func (p *Pool[T]) Storage() Storage {
	return p.sto
}

// NewEntity creates an entity in the owning storage and adds T to it.
func (p *Pool[T]) NewEntity() (Entity, *T) {
	e := p.sto.NewEntity()
	return e, p.Add(e)
}

func (p *Pool[T]) Has(e Entity) bool {
	if validate && !p.sto.Alive(e) {
		panic(StaleEntityError{Entity: e})
	}
	return p.sparse[e.index] > 0
}

func (p *Pool[T]) Get(e Entity) *T {
	if validate && !p.Has(e) {
		panic(ComponentNotFoundError{Type: p.itemType, Entity: e})
	}
	return &p.data[p.sparse[e.index]-1]
}

// Add attaches a zero (or reset) T to the entity and returns it. The pointer
// is valid until the next Add or Remove on this pool.
func (p *Pool[T]) Add(e Entity) *T {
	if validate {
		if p.Has(e) {
			panic(ComponentExistsError{Type: p.itemType, Entity: e})
		}
		p.checkWritable()
	}
	if len(p.dense) == p.len {
		p.grow()
	}
	idx := p.len
	p.len++
	p.dense[idx] = e
	p.sparse[e.index] = int32(p.len)
	data := &p.data[idx]
	if p.resetHandler != nil && p.maxLen < p.len {
		p.maxLen = p.len
		p.resetHandler(data)
	}
	p.sto.SetBit(e, p.id)
	return data
}

func (p *Pool[T]) grow() {
	newCap := max(p.len<<1, 1)
	dense := make([]Entity, newCap)
	copy(dense, p.dense)
	p.dense = dense
	data := make([]T, newCap)
	copy(data, p.data)
	p.data = data
}

// Remove detaches T from the entity. The last live slot is moved into the
// freed one, so the order of Entities changes.
func (p *Pool[T]) Remove(e Entity) {
	if validate {
		if !p.Has(e) {
			panic(ComponentNotFoundError{Type: p.itemType, Entity: e})
		}
		p.checkWritable()
	}
	idx := int(p.sparse[e.index]) - 1
	p.sparse[e.index] = 0
	p.len--
	if p.resetHandler != nil {
		p.resetHandler(&p.data[idx])
	} else {
		var zero T
		p.data[idx] = zero
	}
	if idx < p.len {
		moved := p.dense[p.len]
		p.dense[idx] = moved
		p.sparse[moved.index] = int32(idx + 1)
		p.data[idx], p.data[p.len] = p.data[p.len], p.data[idx]
	}
	p.sto.ClearBit(e, p.id)
}

// Copy duplicates src's component onto dst, adding it to dst when missing.
// It does nothing when src has no component.
func (p *Pool[T]) Copy(src, dst Entity) {
	if validate {
		if !p.sto.Alive(src) {
			panic(StaleEntityError{Entity: src})
		}
		if !p.sto.Alive(dst) {
			panic(StaleEntityError{Entity: dst})
		}
		p.checkWritable()
	}
	if !p.Has(src) {
		return
	}
	if !p.Has(dst) {
		p.Add(dst)
	}
	srcData, dstData := p.Get(src), p.Get(dst)
	if p.copyHandler != nil {
		p.copyHandler(srcData, dstData)
		return
	}
	*dstData = *srcData
}

// Serialize writes the entity's component with the serialize handler. It
// reports false when no handler is set or the component is absent.
func (p *Pool[T]) Serialize(e Entity, w io.Writer) (bool, error) {
	if validate {
		if !p.sto.Alive(e) {
			panic(StaleEntityError{Entity: e})
		}
		if w == nil {
			panic(NilStreamError{Op: "serialize"})
		}
	}
	if p.serializeHandler == nil || !p.Has(e) {
		return false, nil
	}
	if err := p.serializeHandler(p.Get(e), w); err != nil {
		return true, eris.Wrapf(err, "failed to serialize %v of entity %v", p.itemType, e)
	}
	return true, nil
}

func (p *Pool[T]) Deserialize(e Entity, r io.Reader) (bool, error) {
	if validate {
		if !p.sto.Alive(e) {
			panic(StaleEntityError{Entity: e})
		}
		if r == nil {
			panic(NilStreamError{Op: "deserialize"})
		}
	}
	if p.deserializeHandler == nil || !p.Has(e) {
		return false, nil
	}
	if err := p.deserializeHandler(p.Get(e), r); err != nil {
		return true, eris.Wrapf(err, "failed to deserialize %v of entity %v", p.itemType, e)
	}
	return true, nil
}

func (p *Pool[T]) Len() int {
	return p.len
}

func (p *Pool[T]) Entities() []Entity {
	return p.dense[:p.len]
}

// Data returns the live component values, parallel to Entities.
func (p *Pool[T]) Data() []T {
	return p.data[:p.len]
}

// All walks the pool's entities from the last slot to the first. Removing the
// yielded entity during the walk is allowed.
func (p *Pool[T]) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		p.AddBlocker(1)
		defer p.AddBlocker(-1)
		for i := p.len - 1; i >= 0; i-- {
			if i >= p.len {
				continue
			}
			if !yield(p.dense[i]) {
				return
			}
		}
	}
}

func (p *Pool[T]) AddRaw(e Entity) {
	p.Add(e)
}

func (p *Pool[T]) Raw(e Entity) any {
	return *p.Get(e)
}

// SetRaw stores v as the entity's component; nil stores the zero value.
func (p *Pool[T]) SetRaw(e Entity, v any) {
	if v == nil {
		var zero T
		*p.Get(e) = zero
		return
	}
	c, ok := v.(T)
	if validate && !ok {
		panic(TypeMismatchError{Want: p.itemType, Got: reflect.TypeOf(v)})
	}
	*p.Get(e) = c
}

func (p *Pool[T]) Resize(cap int) {
	if cap <= len(p.sparse) {
		return
	}
	sparse := make([]int32, cap)
	copy(sparse, p.sparse)
	p.sparse = sparse
}

func (p *Pool[T]) AddBlocker(amount int) {
	if !validate {
		return
	}
	p.blockers += amount
	if p.blockers < 0 {
		panic(UnbalancedBlockersError{Type: p.itemType})
	}
}

func (p *Pool[T]) Blockers() int {
	return p.blockers
}

func (p *Pool[T]) checkWritable() {
	if p.blockers > 1 {
		panic(ReadOnlyPoolError{Type: p.itemType, Blockers: p.blockers})
	}
}
