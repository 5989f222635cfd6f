// internal/stages/parse-query/config.go
package parsequery

import "time"

type Config struct {
	ModelThreshold int           `json:"modelThreshold"`
	BrandThreshold int           `json:"brandThreshold"`
	MaxCompare     int           `json:"maxCompare"`
	Timeout        time.Duration `json:"timeout"`
}

func LoadConfig() *Config {
	return &Config{
		ModelThreshold: 80,
		BrandThreshold: 92,
		MaxCompare:     3,
		Timeout:        10 * time.Second,
	}
}
