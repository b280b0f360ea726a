package duckdb

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params is the decoded params block of a duckdb target.
type Params struct {
	Extensions []string          `mapstructure:"extensions"`
	Attach     []Attachment      `mapstructure:"attach"`
	Settings   map[string]string `mapstructure:"settings"`
}

// Attachment is a database file made visible under Alias, so procedures
// can open cursors over alias.table.
type Attachment struct {
	Path     string `mapstructure:"path"`
	Alias    string `mapstructure:"alias"`
	ReadOnly bool   `mapstructure:"read_only"`
}

func (a Attachment) sql() string {
	stmt := "ATTACH " + quote(a.Path)
	if a.Alias != "" {
		stmt += " AS " + a.Alias
	}
	if a.ReadOnly {
		stmt += " (READ_ONLY)"
	}
	return stmt
}

// parseParams decodes the free-form params block of a target. Settings
// values are coerced to strings so numbers can be written unquoted in YAML.
func parseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid duckdb params: %w", err)
	}
	for i, a := range p.Attach {
		if a.Path == "" {
			return nil, fmt.Errorf("invalid duckdb params: attach[%d] has no path", i)
		}
	}
	return p, nil
}
