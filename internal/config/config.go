package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odekit/internal/ode"
	"github.com/san-kum/odekit/internal/problems"
)

const (
	DefaultProblem  = "exp_growth"
	DefaultEndpoint = "clamp"
)

type Config struct {
	Problem   string  `yaml:"problem"`
	Label     string  `yaml:"label,omitempty"`
	T0        float64 `yaml:"t0"`
	Tmax      float64 `yaml:"tmax"`
	Y0        float64 `yaml:"y0"`
	H         float64 `yaml:"h"`
	Endpoint  string  `yaml:"endpoint"`
	MaxPoints int     `yaml:"max_points,omitempty"`
}

func DefaultConfig() *Config {
	p, _ := problems.NewRegistry().Get(DefaultProblem)
	return FromProblem(p)
}

// FromProblem fills a config with the problem's default setup.
func FromProblem(p *problems.Problem) *Config {
	return &Config{
		Problem:  p.Name,
		T0:       p.Default.T0,
		Tmax:     p.Default.Tmax,
		Y0:       p.Default.Y0,
		H:        p.Default.H,
		Endpoint: DefaultEndpoint,
	}
}

// Load reads a YAML config. Fields missing from the file keep the defaults of
// the problem the file names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return DefaultConfig(), nil
	}
	return FromNode(node.Content[0])
}

// FromNode decodes a YAML mapping on top of the defaults of the problem it
// names, or of DefaultProblem when it names none.
func FromNode(node *yaml.Node) (*Config, error) {
	var head struct {
		Problem string `yaml:"problem"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if head.Problem != "" {
		if p, err := problems.NewRegistry().Get(head.Problem); err == nil {
			cfg = FromProblem(p)
		}
	}
	if err := node.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) EndpointPolicy() (ode.EndpointPolicy, error) {
	return ode.ParseEndpoint(c.Endpoint)
}

// Integrator builds the RK4 integrator described by the config.
func (c *Config) Integrator() (*ode.RK4, error) {
	policy, err := c.EndpointPolicy()
	if err != nil {
		return nil, err
	}
	return ode.NewRK4(ode.WithEndpoint(policy), ode.WithMaxPoints(c.MaxPoints)), nil
}

// Validate checks the config against the built-in problems without running
// it. Range and step failures wrap the ode sentinel errors.
func (c *Config) Validate() error {
	return c.ValidateIn(problems.NewRegistry())
}

// ValidateIn is Validate for a caller-supplied registry. An unknown problem
// wraps problems.ErrUnknownProblem.
func (c *Config) ValidateIn(reg *problems.Registry) error {
	if c.Problem == "" {
		return fmt.Errorf("config: problem is required")
	}
	if _, err := reg.Get(c.Problem); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	integ, err := c.Integrator()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := integ.Points(c.T0, c.Tmax, c.H); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
