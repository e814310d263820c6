package personas

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/pkg/errors"
)

//go:embed personas.yaml
var builtin []byte

type document struct {
	Agents []entity.Agent `yaml:"agents"`
}

// Registry holds the agent personas keyed by agent type
type Registry struct {
	ordered []entity.Agent
	byKey   map[string]*entity.Agent
}

// Load parses the embedded persona definitions
func Load() (*Registry, error) {
	return Parse(builtin)
}

// MustLoad is Load for callers that cannot recover from a broken binary
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(err)
	}
	return r
}

// Parse builds a registry from a YAML document
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse personas: %w", err)
	}
	if len(doc.Agents) == 0 {
		return nil, fmt.Errorf("parse personas: no agents defined")
	}

	r := &Registry{
		ordered: doc.Agents,
		byKey:   make(map[string]*entity.Agent, len(doc.Agents)),
	}
	for i := range r.ordered {
		a := &r.ordered[i]
		if a.Key == "" {
			return nil, fmt.Errorf("parse personas: agent %d has no key", i)
		}
		if _, dup := r.byKey[a.Key]; dup {
			return nil, fmt.Errorf("parse personas: duplicate agent %q", a.Key)
		}
		r.byKey[a.Key] = a
	}
	return r, nil
}

// Get returns the persona for an agent type
func (r *Registry) Get(key string) (*entity.Agent, error) {
	a, ok := r.byKey[key]
	if !ok {
		return nil, errors.NewBadRequest(fmt.Sprintf("Unknown agent type: %s", key))
	}
	cp := *a
	return &cp, nil
}

// Has reports whether key names a known agent
func (r *Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// Listed returns the personas shown by the agent listing, in file order
func (r *Registry) Listed() []entity.Agent {
	out := make([]entity.Agent, 0, len(r.ordered))
	for _, a := range r.ordered {
		if a.Listed {
			out = append(out, a)
		}
	}
	return out
}

// Keys returns the listed agent types
func (r *Registry) Keys() []string {
	listed := r.Listed()
	keys := make([]string, len(listed))
	for i, a := range listed {
		keys[i] = a.Key
	}
	return keys
}
