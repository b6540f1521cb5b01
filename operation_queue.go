package depot

import (
	"reflect"

	"github.com/rotisserie/eris"
)

type commandType int

const (
	cmdCreate commandType = iota
	cmdDestroy
	cmdAddComponent
	cmdRemoveComponent
)

type command struct {
	typ    commandType
	entity Entity
	pools  []AnyPool
	value  any
}

type commandKey struct {
	entity Entity
	pool   uint32
}

// CommandBuffer records structural changes while pools are blocked by an
// iteration and applies them on Flush: creates first, then component
// changes, then destroys.
type CommandBuffer struct {
	sto            Storage
	createOps      []command
	componentOps   []command
	destroyOps     []command
	pendingDestroy map[Entity]struct{}
	pendingMods    map[commandKey]int
}

func newCommandBuffer(sto Storage) *CommandBuffer {
	return &CommandBuffer{
		sto:            sto,
		pendingDestroy: make(map[Entity]struct{}),
		pendingMods:    make(map[commandKey]int),
	}
}

// EnqueueCreate queues a new entity holding a component from each pool.
func (b *CommandBuffer) EnqueueCreate(pools ...AnyPool) {
	b.createOps = append(b.createOps, command{typ: cmdCreate, pools: pools})
}

// EnqueueAdd queues adding the pool's component to e. A nil value keeps what
// Add produces; otherwise value is stored with SetRaw, overwriting a component
// the entity already has by flush time.
func (b *CommandBuffer) EnqueueAdd(pool AnyPool, e Entity, value any) {
	b.enqueueComponentOp(cmdAddComponent, pool, e, value)
}

func (b *CommandBuffer) EnqueueRemove(pool AnyPool, e Entity) {
	b.enqueueComponentOp(cmdRemoveComponent, pool, e, nil)
}

func (b *CommandBuffer) enqueueComponentOp(typ commandType, pool AnyPool, e Entity, value any) {
	// Changes to an entity that is about to be destroyed are dropped.
	if _, destroyed := b.pendingDestroy[e]; destroyed {
		return
	}
	key := commandKey{entity: e, pool: pool.ID()}
	if idx, exists := b.pendingMods[key]; exists {
		op := &b.componentOps[idx]
		op.typ = typ
		op.value = value
		return
	}
	b.pendingMods[key] = len(b.componentOps)
	b.componentOps = append(b.componentOps, command{
		typ:    typ,
		entity: e,
		pools:  []AnyPool{pool},
		value:  value,
	})
}

// EnqueueDestroy queues the entities for destruction and cancels their
// pending component changes.
func (b *CommandBuffer) EnqueueDestroy(entities ...Entity) {
	for _, e := range entities {
		if _, exists := b.pendingDestroy[e]; exists {
			continue
		}
		b.pendingDestroy[e] = struct{}{}
		b.destroyOps = append(b.destroyOps, command{typ: cmdDestroy, entity: e})
	}
}

// Len returns the number of queued commands.
func (b *CommandBuffer) Len() int {
	return len(b.createOps) + len(b.componentOps) + len(b.destroyOps)
}

// Flush applies every queued command in order and empties the buffer.
// Commands aimed at entities that died in the meantime are skipped.
func (b *CommandBuffer) Flush() error {
	if b.Len() == 0 {
		return nil
	}
	defer b.reset()

	for _, op := range b.createOps {
		e := b.sto.NewEntity()
		for _, pool := range op.pools {
			pool.AddRaw(e)
		}
	}

	skipped := 0
	for _, op := range b.componentOps {
		if _, destroyed := b.pendingDestroy[op.entity]; destroyed || !b.sto.Alive(op.entity) {
			skipped++
			continue
		}
		pool := op.pools[0]
		switch op.typ {
		case cmdAddComponent:
			if op.value != nil {
				if got := reflect.TypeOf(op.value); got != pool.ItemType() {
					return eris.Wrapf(TypeMismatchError{Want: pool.ItemType(), Got: got},
						"failed to add queued component to entity %v", op.entity)
				}
			}
			if !pool.Has(op.entity) {
				pool.AddRaw(op.entity)
			}
			if op.value != nil {
				pool.SetRaw(op.entity, op.value)
			}
		case cmdRemoveComponent:
			if pool.Has(op.entity) {
				pool.Remove(op.entity)
			}
		}
	}

	for _, op := range b.destroyOps {
		if !b.sto.Alive(op.entity) {
			skipped++
			continue
		}
		b.sto.DestroyEntity(op.entity)
	}

	b.sto.Logger().Debug().
		Int("created", len(b.createOps)).
		Int("component_ops", len(b.componentOps)).
		Int("destroyed", len(b.destroyOps)).
		Int("skipped", skipped).
		Msg("command buffer flushed")
	return nil
}

func (b *CommandBuffer) reset() {
	b.createOps = b.createOps[:0]
	b.componentOps = b.componentOps[:0]
	b.destroyOps = b.destroyOps[:0]
	clear(b.pendingDestroy)
	clear(b.pendingMods)
}
