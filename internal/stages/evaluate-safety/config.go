// internal/stages/evaluate-safety/config.go
package evaluatesafety

import "time"

// No tunables beyond the shared stage timeout, but the struct is kept
// for consistency with the other stages.
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
