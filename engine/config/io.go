package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// UnmarshalJSON decodes a group on top of [DefaultGroup].
func (g *Group) UnmarshalJSON(data []byte) error {
	type plain Group

	p := plain(DefaultGroup())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = Group(p)

	return nil
}

// UnmarshalJSON decodes an equalizer on top of [DefaultEqualizer].
func (e *Equalizer) UnmarshalJSON(data []byte) error {
	type plain Equalizer

	p := plain(DefaultEqualizer())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Equalizer(p)

	return nil
}

// Parse decodes a JSON document on top of [Default] and validates it.
// Unknown fields are an error. When the document sets a crossover count
// without frequencies, the default frequencies for that count are used.
func Parse(r io.Reader) (UserConfiguration, error) {
	cfg := Default()
	cfg.CrossoverFrequencies = nil

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return UserConfiguration{}, fmt.Errorf("config: decode: %w", err)
	}

	if cfg.CrossoverFrequencies == nil {
		cfg.CrossoverFrequencies = DefaultCrossoverFrequencies(cfg.Crossovers)
	}

	if err := cfg.Validate(); err != nil {
		return UserConfiguration{}, err
	}

	return cfg, nil
}

// Load reads and validates the configuration file at path.
func Load(path string) (UserConfiguration, error) {
	f, err := os.Open(path)
	if err != nil {
		return UserConfiguration{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return UserConfiguration{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes c as indented JSON.
func (c *UserConfiguration) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	return nil
}
