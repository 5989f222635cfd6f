// internal/stages/build-response/config.go
package buildresponse

import "time"

type Config struct {
	TopK       int           `json:"topK"`
	MaxCompare int           `json:"maxCompare"`
	Timeout    time.Duration `json:"timeout"`
}

func LoadConfig() *Config {
	return &Config{
		TopK:       3,
		MaxCompare: 3,
		Timeout:    10 * time.Second,
	}
}
