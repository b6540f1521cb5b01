/*
Package depot provides sparse-set component storage and mask-driven queries for Entity-Component-System (ECS) runtimes.

Every component type lives in its own pool: a dense array of entities and values kept in lock-step,
plus a sparse array mapping entity indices to slots. The storage keeps a bit mask per entity telling
which pools hold a component for it, and iterators use those masks to match entities against
"include these pools, exclude those pools" predicates.

Core Concepts:

  - Entity: An index plus generation. A destroyed entity's handle never matches its reused index.
  - Pool: The storage for one component type. Removal swaps the last slot into the freed one.
  - Iterator: Walks the smallest include pool backwards and yields the entities that pass the mask test.
  - Blockers: Open passes over a pool. A pool blocked by more than one pass rejects structural changes.

Basic Usage:

	// Create storage with schema
	schema := table.Factory.NewSchema()
	storage := depot.Factory.NewStorage(schema)

	// Create entities
	positions := depot.PoolFor[Position](storage)
	velocities := depot.PoolFor[Velocity](storage)
	for range 100 {
		e, _ := positions.NewEntity()
		velocities.Add(e).X = 1
	}

	// Iterate entities holding both components
	it := depot.Factory.NewIterator(depot.Ref[Position](), depot.Ref[Velocity]()).Init(storage)
	for e := range it.All() {
		pos, vel := positions.Get(e), velocities.Get(e)
		pos.X += vel.X
		pos.Y += vel.Y
	}

Changes that would touch a pool blocked by a nested pass go through a CommandBuffer and are
applied with Flush once the passes are done.

Precondition checks panic with the typed errors of this package. Building with the
depot_unchecked tag compiles them out.

A storage holds at most mask.MaxBits pools: 64 by default. Build with the mask package's
m256, m512 or m1024 tag to raise the limit, e.g. go build -tags=m256.
*/
package depot
