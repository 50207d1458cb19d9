package config

import (
	"github.com/pelletier/go-toml/v2"
)

// TOMLParser lets koanf read TOML files through go-toml
type TOMLParser struct{}

// TOML returns a koanf parser for TOML documents
func TOML() *TOMLParser {
	return &TOMLParser{}
}

func (p *TOMLParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *TOMLParser) Marshal(o map[string]interface{}) ([]byte, error) {
	return toml.Marshal(o)
}
