// internal/stages/search-catalog/config.go
package searchcatalog

import "time"

type Config struct {
	TopK    int           `json:"topK"`
	Timeout time.Duration `json:"timeout"`
}

func LoadConfig() *Config {
	return &Config{
		TopK:    3,
		Timeout: 10 * time.Second,
	}
}
