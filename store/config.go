package store

// Config holds configuration for the DynamoDB adapter.
type Config struct {
	// Table is the DynamoDB table holding every entity kind.
	// Default: "cellar_entities"
	Table string

	// CounterPartition names the internal partition used for numeric id
	// allocation. It must never collide with an entity kind.
	// Default: "__counters"
	CounterPartition string
}

// DefaultConfig returns sensible defaults for a single-table deployment.
func DefaultConfig() Config {
	return Config{
		Table:            "cellar_entities",
		CounterPartition: "__counters",
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.Table == "" {
		c.Table = "cellar_entities"
	}
	if c.CounterPartition == "" {
		c.CounterPartition = "__counters"
	}
}
