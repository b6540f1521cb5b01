package depot

import (
	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

const (
	DefaultEntityCapacity     = 512
	DefaultPoolCapacity       = 128
	DefaultMaxPools           = maxKeyBits
	DefaultMaxCachedIterators = 256
)

// Config sizes a Storage. Fields map to DEPOT_* environment variables in
// ConfigFromEnv.
type Config struct {
	EntityCapacity     int `config:"DEPOT_ENTITY_CAPACITY"`
	PoolCapacity       int `config:"DEPOT_POOL_CAPACITY"`
	MaxPools           int `config:"DEPOT_MAX_POOLS"`
	MaxCachedIterators int `config:"DEPOT_MAX_CACHED_ITERATORS"`
}

func DefaultConfig() Config {
	return Config{
		EntityCapacity:     DefaultEntityCapacity,
		PoolCapacity:       DefaultPoolCapacity,
		MaxPools:           DefaultMaxPools,
		MaxCachedIterators: DefaultMaxCachedIterators,
	}
}

// ConfigFromEnv starts from DefaultConfig and overrides every field that has
// a matching environment variable set.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := jlconfig.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "failed to load depot config from environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.EntityCapacity <= 0:
		return eris.Errorf("entity capacity must be positive, got %d", c.EntityCapacity)
	case c.PoolCapacity <= 0:
		return eris.Errorf("pool capacity must be positive, got %d", c.PoolCapacity)
	case c.MaxPools <= 0 || c.MaxPools > maxKeyBits:
		return eris.Errorf("max pools must be within 1..%d, got %d", maxKeyBits, c.MaxPools)
	case c.MaxCachedIterators < 0:
		return eris.Errorf("max cached iterators must not be negative, got %d", c.MaxCachedIterators)
	}
	return nil
}
