package bench

import (
	"testing"

	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/table"
)

const (
	nPos    = 9000
	nPosVel = 1000
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

func newDepotStorage() depot.Storage {
	schema := table.Factory.NewSchema()
	storage := depot.Factory.NewStorage(schema)

	positions := depot.PoolFor[Position](storage)
	velocities := depot.PoolFor[Velocity](storage)
	for range nPosVel {
		e, _ := positions.NewEntity()
		velocities.Add(e)
	}
	for range nPos {
		positions.NewEntity()
	}
	return storage
}

func BenchmarkIterDepotGet(b *testing.B) {
	b.StopTimer()

	storage := newDepotStorage()
	positions := depot.PoolFor[Position](storage)
	velocities := depot.PoolFor[Velocity](storage)
	it := depot.Factory.NewIterator(depot.Ref[Position](), depot.Ref[Velocity]()).Init(storage)

	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for e := range it.All() {
			pos := positions.Get(e)
			vel := velocities.Get(e)

			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkIterDepotCursor(b *testing.B) {
	b.StopTimer()

	storage := newDepotStorage()
	position := depot.FactoryNewComponent[Position]()
	velocity := depot.FactoryNewComponent[Velocity]()
	cursor := depot.Factory.NewQuery().
		Include(position.Ref(), velocity.Ref()).
		Iterator(storage).
		Cursor()

	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for cursor.Next() {
			pos := position.GetFromCursor(cursor)
			vel := velocity.GetFromCursor(cursor)

			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkIterDepotExclude(b *testing.B) {
	b.StopTimer()

	storage := newDepotStorage()
	positions := depot.PoolFor[Position](storage)
	it := depot.Factory.NewIteratorExc(
		[]depot.PoolRef{depot.Ref[Position]()},
		[]depot.PoolRef{depot.Ref[Velocity]()},
	).Init(storage)

	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for e := range it.All() {
			positions.Get(e).X++
		}
	}
}
