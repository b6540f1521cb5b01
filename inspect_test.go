package depot

import (
	"bytes"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestEntityComponents(t *testing.T) {
	storage := newTestStorage()
	positions := PoolFor[Position](storage)
	velocities := PoolFor[Velocity](storage)
	PoolFor[Health](storage)

	e, pos := positions.NewEntity()
	pos.X = 4
	velocities.Add(e).Y = 2

	require.Equal(t, []AnyPool{positions, velocities}, EntityPools(storage, e))
	require.Equal(t, []any{Position{X: 4}, Velocity{Y: 2}}, EntityComponents(storage, e))

	m := EntityMask(storage, e)
	require.True(t, m.ContainsAll(buildKey([]uint32{positions.ID(), velocities.ID()})))

	bare := storage.NewEntity()
	require.Empty(t, EntityComponents(storage, bare))
}

// TestMaskPoolAgreement checks that every mask bit matches pool membership
// after a mixed sequence of adds, removes and destroys.
func TestMaskPoolAgreement(t *testing.T) {
	storage := newTestStorage()
	pools := []AnyPool{PoolFor[Position](storage), PoolFor[Velocity](storage), PoolFor[Health](storage)}

	var entities []Entity
	for i := range 40 {
		e := storage.NewEntity()
		for p, pool := range pools {
			if (i+p)%(p+2) == 0 {
				pool.AddRaw(e)
			}
		}
		entities = append(entities, e)
	}
	for i, e := range entities {
		switch i % 5 {
		case 0:
			storage.DestroyEntity(e)
		case 1:
			if pools[0].Has(e) {
				pools[0].Remove(e)
			}
		}
	}

	for _, e := range entities {
		if !storage.Alive(e) {
			continue
		}
		held := EntityPools(storage, e)
		for _, pool := range pools {
			require.Equal(t, pool.Has(e), containsPool(held, pool), "entity %v pool %v", e, pool.ItemType())
		}
	}
}

func containsPool(pools []AnyPool, target AnyPool) bool {
	for _, pool := range pools {
		if pool == target {
			return true
		}
	}
	return false
}

func TestMatchBitmap(t *testing.T) {
	storage := newTestStorage()
	positions := PoolFor[Position](storage)
	velocities := PoolFor[Velocity](storage)

	want := roaring.New()
	for i := range 10 {
		e, _ := positions.NewEntity()
		if i%2 == 0 {
			velocities.Add(e)
			want.Add(e.Index())
		}
	}

	it := Factory.NewIterator(Ref[Position](), Ref[Velocity]()).Init(storage)
	got := MatchBitmap(it)
	require.True(t, want.Equals(got))
	require.True(t, roaring.And(PoolBitmap(positions), PoolBitmap(velocities)).Equals(got))
}

func TestLogHelpers(t *testing.T) {
	var buf bytes.Buffer
	storage := newTestStorage(WithLogger(zerolog.New(&buf)))
	positions := PoolFor[Position](storage)
	e, pos := positions.NewEntity()
	pos.X = 1.5

	LogPools(storage, zerolog.InfoLevel)
	require.Contains(t, buf.String(), `"total_pools":1`)
	require.Contains(t, buf.String(), `"component_name":"depot.Position"`)

	buf.Reset()
	LogEntity(storage, e, zerolog.InfoLevel)
	require.Contains(t, buf.String(), `"entity":"`+e.String()+`"`)
	require.Contains(t, buf.String(), `"depot.Position":{"X":1.5,"Y":0}`)

	buf.Reset()
	storage.DestroyEntity(e)
	LogEntity(storage, e, zerolog.InfoLevel)
	require.Contains(t, buf.String(), "cannot log entity")
}
