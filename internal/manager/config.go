package manager

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config configures an EngineManager. It is the shape the CLI's
// configuration file unmarshals into via gopkg.in/yaml.v3.
type Config struct {
	// BlueprintCacheSize bounds how many distinct (business, schema hash)
	// compiled blueprints stay resident (§4.5.1).
	BlueprintCacheSize int `yaml:"blueprint_cache_size" validate:"required,gt=0"`
	// PoolSize bounds how many live engines per cache key stay checked
	// back in, ready for reuse without recompiling (§4.5.2).
	PoolSize int `yaml:"pool_size" validate:"required,gt=0"`
	// Workers bounds the parallel executor's worker pool (§5).
	Workers int `yaml:"workers" validate:"required,gt=0"`
	// TimeoutSeconds bounds how long a single run is allowed to take
	// before its context is cancelled, zero meaning no manager-imposed
	// deadline. Plain integer seconds, matching the teacher's own
	// timeout-field convention, since gopkg.in/yaml.v3 has no built-in
	// support for decoding duration strings straight into time.Duration.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=0"`
}

// DefaultConfig mirrors the defaults called out in the design notes:
// a blueprint cache of 100 entries, pools of 10 engines per key, 4
// parallel workers, and no manager-imposed run timeout.
func DefaultConfig() Config {
	return Config{BlueprintCacheSize: 100, PoolSize: 10, Workers: 4, TimeoutSeconds: 0}
}

// Timeout returns TimeoutSeconds as a time.Duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func sharedValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
	})
	return validatorInst
}

// Validate checks the config against its struct tags, returning a
// validator.ValidationErrors on failure.
func (c Config) Validate() error {
	return sharedValidator().Struct(c)
}
