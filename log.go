package depot

import (
	"github.com/rs/zerolog"
)

func loadPoolIntoArray(pool AnyPool, arr *zerolog.Array) *zerolog.Array {
	dict := zerolog.Dict()
	dict = dict.Uint32("pool_id", pool.ID())
	dict = dict.Str("component_name", pool.ItemType().String())
	dict = dict.Int("len", pool.Len())
	return arr.Dict(dict)
}

// LogPools logs every registered pool with its size.
func LogPools(sto Storage, level zerolog.Level) {
	pools := sto.Pools()
	arr := zerolog.Arr()
	for _, pool := range pools {
		arr = loadPoolIntoArray(pool, arr)
	}
	sto.Logger().WithLevel(level).
		Int("total_pools", len(pools)).
		Int("mask_words", sto.MaskWordCount()).
		Array("pools", arr).
		Send()
}

// LogEntity logs the pools an entity belongs to and its component values
// encoded as JSON.
func LogEntity(sto Storage, e Entity, level zerolog.Level) {
	logger := sto.Logger()
	if !sto.Alive(e) {
		logger.Error().Err(StaleEntityError{Entity: e}).Msg("cannot log entity")
		return
	}
	arr := zerolog.Arr()
	values := zerolog.Dict()
	for _, pool := range EntityPools(sto, e) {
		arr = loadPoolIntoArray(pool, arr)
		bz, err := MarshalComponent(pool.Raw(e))
		if err != nil {
			logger.Error().Err(err).Str("component_name", pool.ItemType().String()).
				Msgf("failed to encode component of entity %v", e)
			continue
		}
		values = values.RawJSON(pool.ItemType().String(), bz)
	}
	logger.WithLevel(level).
		Stringer("entity", e).
		Array("components", arr).
		Dict("values", values).
		Send()
}
