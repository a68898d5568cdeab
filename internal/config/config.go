package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jeongseonghan/optic-link/internal/constellation"
)

// ErrScenarioNotFound is returned when a named scenario is missing.
var ErrScenarioNotFound = errors.New("config: scenario not found")

// Sweep describes an Eb/N0 range in dB.
type Sweep struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
	Step float64 `yaml:"step"`
}

// Points expands the sweep into its Eb/N0 values.
func (s Sweep) Points() []float64 {
	var out []float64
	for v := s.From; v <= s.To+1e-9; v += s.Step {
		out = append(out, v)
	}
	return out
}

// FEC configures the optional coded-link evaluation of a scenario.
type FEC struct {
	Enabled      bool `yaml:"enabled"`
	DataShards   int  `yaml:"dataShards"`
	ParityShards int  `yaml:"parityShards"`
	PayloadBytes int  `yaml:"payloadBytes"`
}

// Scenario is one Monte Carlo sweep definition.
type Scenario struct {
	Name    string    `yaml:"name"`
	M       int       `yaml:"m"`
	Type    string    `yaml:"type"` // qam, psk or pam
	EbN0    Sweep     `yaml:"ebn0"`
	Symbols int       `yaml:"symbols"`
	Modes   int       `yaml:"modes"`
	Seed    int64     `yaml:"seed"`
	PMF     []float64 `yaml:"pmf,omitempty"`
	FEC     FEC       `yaml:"fec,omitempty"`
}

// ConstType returns the scenario's constellation family.
func (s Scenario) ConstType() constellation.Type {
	return constellation.Type(s.Type)
}

// Validate checks the scenario for inconsistent parameters.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("config: scenario without name")
	}
	if _, err := constellation.GrayMapping(s.M, s.ConstType()); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	if s.Symbols <= 0 {
		return fmt.Errorf("scenario %q: symbols must be > 0", s.Name)
	}
	if s.Modes <= 0 {
		return fmt.Errorf("scenario %q: modes must be > 0", s.Name)
	}
	if s.EbN0.Step <= 0 || s.EbN0.To < s.EbN0.From {
		return fmt.Errorf("scenario %q: bad ebn0 sweep [%v, %v] step %v", s.Name, s.EbN0.From, s.EbN0.To, s.EbN0.Step)
	}
	if len(s.PMF) != 0 && len(s.PMF) != s.M {
		return fmt.Errorf("scenario %q: pmf has %d entries for M=%d", s.Name, len(s.PMF), s.M)
	}
	if s.FEC.Enabled {
		if s.FEC.DataShards <= 0 || s.FEC.ParityShards <= 0 {
			return fmt.Errorf("scenario %q: bad fec shard counts", s.Name)
		}
		if s.FEC.PayloadBytes <= 0 {
			return fmt.Errorf("scenario %q: fec payloadBytes must be > 0", s.Name)
		}
	}
	return nil
}

// File is a parsed scenario file.
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, errors.New("config: no scenarios defined")
	}
	for _, s := range f.Scenarios {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// Load reads and parses a scenario file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Scenario returns the scenario with the given name.
func (f *File) Scenario(name string) (Scenario, error) {
	for _, s := range f.Scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrScenarioNotFound, name)
}

// Names lists the defined scenario names in file order.
func (f *File) Names() []string {
	out := make([]string, len(f.Scenarios))
	for i, s := range f.Scenarios {
		out[i] = s.Name
	}
	return out
}
