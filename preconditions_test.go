//go:build !depot_unchecked

package depot

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolPreconditions(t *testing.T) {
	posType := reflect.TypeFor[Position]()

	tests := []struct {
		name string
		want any
		run  func(sto Storage, positions *Pool[Position], e Entity)
	}{
		{
			name: "Double add",
			want: ComponentExistsError{Type: posType},
			run: func(_ Storage, positions *Pool[Position], e Entity) {
				positions.Add(e)
				positions.Add(e)
			},
		},
		{
			name: "Get absent",
			want: ComponentNotFoundError{Type: posType},
			run: func(_ Storage, positions *Pool[Position], e Entity) {
				positions.Get(e)
			},
		},
		{
			name: "Remove absent",
			want: ComponentNotFoundError{Type: posType},
			run: func(_ Storage, positions *Pool[Position], e Entity) {
				positions.Remove(e)
			},
		},
		{
			name: "Nil writer",
			want: NilStreamError{Op: "serialize"},
			run: func(_ Storage, positions *Pool[Position], e Entity) {
				positions.Serialize(e, nil)
			},
		},
		{
			name: "Nil reader",
			want: NilStreamError{Op: "deserialize"},
			run: func(_ Storage, positions *Pool[Position], e Entity) {
				positions.Deserialize(e, nil)
			},
		},
		{
			name: "Set wrong type",
			want: TypeMismatchError{Want: posType, Got: reflect.TypeFor[Velocity]()},
			run: func(_ Storage, positions *Pool[Position], e Entity) {
				positions.Add(e)
				positions.SetRaw(e, Velocity{})
			},
		},
		{
			name: "Unbalanced blockers",
			want: UnbalancedBlockersError{Type: posType},
			run: func(_ Storage, positions *Pool[Position], _ Entity) {
				positions.AddBlocker(-1)
			},
		},
		{
			name: "Init twice",
			want: AlreadyInitializedError{What: "pool depot.Position"},
			run: func(sto Storage, positions *Pool[Position], _ Entity) {
				positions.Init(0, sto)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newTestStorage()
			positions := PoolFor[Position](storage)
			e := storage.NewEntity()

			want := tt.want
			switch w := want.(type) {
			case ComponentExistsError:
				w.Entity = e
				want = w
			case ComponentNotFoundError:
				w.Entity = e
				want = w
			}
			require.PanicsWithValue(t, want, func() {
				tt.run(storage, positions, e)
			})
		})
	}
}

func TestStaleEntityPanics(t *testing.T) {
	storage := newTestStorage()
	positions := PoolFor[Position](storage)
	e, _ := positions.NewEntity()
	storage.DestroyEntity(e)
	want := StaleEntityError{Entity: e}

	require.PanicsWithValue(t, want, func() { positions.Has(e) })
	require.PanicsWithValue(t, want, func() { positions.Add(e) })
	require.PanicsWithValue(t, want, func() { positions.Serialize(e, &bytes.Buffer{}) })
	require.PanicsWithValue(t, want, func() { storage.DestroyEntity(e) })
	require.PanicsWithValue(t, want, func() { EntityComponents(storage, e) })

	live := storage.NewEntity()
	require.PanicsWithValue(t, want, func() { positions.Copy(e, live) })
}

func TestReadOnlyPool(t *testing.T) {
	storage := newTestStorage()
	positions := PoolFor[Position](storage)
	velocities := PoolFor[Velocity](storage)
	for range 2 {
		e, _ := positions.NewEntity()
		velocities.Add(e)
	}
	spare := storage.NewEntity()
	it := Factory.NewIterator(Ref[Position]()).Init(storage)

	for outer := range it.All() {
		for range it.All() {
			require.PanicsWithValue(t, ReadOnlyPoolError{Type: reflect.TypeFor[Position](), Blockers: 2}, func() {
				positions.Remove(outer)
			})
			require.PanicsWithValue(t, ReadOnlyPoolError{Type: reflect.TypeFor[Position](), Blockers: 2}, func() {
				positions.Add(spare)
			})
			// Pools outside the iterator stay writable.
			velocities.Remove(outer)
			velocities.Add(outer)
			break
		}
		// Back to a single owner.
		positions.Remove(outer)
	}
	require.Equal(t, 0, positions.Len())
	require.Equal(t, 0, positions.Blockers())
}

func TestIteratorPreconditions(t *testing.T) {
	storage := newTestStorage()

	require.PanicsWithValue(t, InvalidIteratorError{Reason: "include list is empty"}, func() {
		Factory.NewIterator()
	})
	require.PanicsWithValue(t, InvalidIteratorError{Reason: "exclude list is empty"}, func() {
		Factory.NewIteratorExc([]PoolRef{Ref[Position]()}, nil)
	})
	require.PanicsWithValue(t, InvalidIteratorError{Reason: "a pool is both included and excluded"}, func() {
		Factory.NewIteratorExc([]PoolRef{Ref[Position]()}, []PoolRef{Ref[Position]()}).Init(storage)
	})
	require.PanicsWithValue(t, InvalidIteratorError{Reason: "a pool is included twice"}, func() {
		Factory.NewIterator(Ref[Position](), Ref[Velocity](), Ref[Position]()).Init(storage)
	})
	require.PanicsWithValue(t, InvalidIteratorError{Reason: "a pool is excluded twice"}, func() {
		Factory.NewIteratorExc([]PoolRef{Ref[Position]()}, []PoolRef{Ref[Health](), Ref[Health]()}).Init(storage)
	})

	it := Factory.NewIterator(Ref[Position]())
	require.PanicsWithValue(t, NotInitializedError{What: "iterator"}, func() {
		it.LenSlow()
	})
	require.PanicsWithValue(t, NotInitializedError{What: "iterator"}, func() {
		it.Cursor()
	})

	it.Init(storage)
	require.PanicsWithValue(t, AlreadyInitializedError{What: "iterator"}, func() {
		it.Init(storage)
	})
}
