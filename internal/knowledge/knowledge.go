// Package knowledge holds one tenant's domain facts and assembles the
// bounded text context injected into model prompts. The tenant file is
// loaded once at startup and the store is read-only afterwards, so it is
// safe to share across concurrent requests.
package knowledge

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTenant []byte

// Entry is a keyed catalog record (a service or a policy) whose facts are
// an arbitrarily nested mapping rendered into prompt text.
type Entry struct {
	Key   string         `yaml:"key"`
	Facts map[string]any `yaml:"facts"`
}

type SLA struct {
	ResponseTimes      map[string]string `yaml:"response_times"`
	EscalationTriggers []string          `yaml:"escalation_triggers"`
	EscalationContact  string            `yaml:"escalation_contact"`
}

type FAQItem struct {
	Q string `yaml:"q"`
	A string `yaml:"a"`
}

// Tenant is the static knowledge record for one business.
type Tenant struct {
	Name       string            `yaml:"name"`
	ShortName  string            `yaml:"short_name"`
	Tagline    string            `yaml:"tagline"`
	Overview   string            `yaml:"overview"`
	BrandVoice string            `yaml:"brand_voice"`
	Services   []Entry           `yaml:"services"`
	Policies   []Entry           `yaml:"policies"`
	SLA        SLA               `yaml:"sla"`
	FAQ        []FAQItem         `yaml:"faq"`
	Contacts   map[string]string `yaml:"contacts"`
}

// Store wraps a loaded tenant with a policy-key index for scoping.
type Store struct {
	tenant     Tenant
	policyKeys map[string]struct{}
}

// Load reads a tenant knowledge file. An empty path selects the embedded
// default tenant.
func Load(path string) (*Store, error) {
	data := defaultTenant
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read tenant file: %w", err)
		}
		data = fileData
	}
	return Parse(data)
}

// Parse builds a store from raw tenant YAML.
func Parse(data []byte) (*Store, error) {
	var t Tenant
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse tenant file: %w", err)
	}
	if err := validate(&t); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(t.Policies))
	for _, p := range t.Policies {
		keys[p.Key] = struct{}{}
	}
	return &Store{tenant: t, policyKeys: keys}, nil
}

func validate(t *Tenant) error {
	if t.Name == "" {
		return fmt.Errorf("tenant file: name is required")
	}
	if t.Overview == "" {
		return fmt.Errorf("tenant file: overview is required")
	}
	if t.SLA.EscalationContact == "" {
		return fmt.Errorf("tenant file: sla.escalation_contact is required")
	}
	seen := make(map[string]struct{}, len(t.Policies))
	for i, p := range t.Policies {
		if p.Key == "" {
			return fmt.Errorf("tenant file: policies[%d] has no key", i)
		}
		if _, dup := seen[p.Key]; dup {
			return fmt.Errorf("tenant file: duplicate policy key %q", p.Key)
		}
		seen[p.Key] = struct{}{}
	}
	return nil
}

// CompanyName returns the tenant's display name.
func (s *Store) CompanyName() string { return s.tenant.Name }

// ShortName returns the tenant's abbreviation, falling back to the name.
func (s *Store) ShortName() string {
	if s.tenant.ShortName != "" {
		return s.tenant.ShortName
	}
	return s.tenant.Name
}

// Tagline returns the one-line business description used in prompts.
func (s *Store) Tagline() string { return s.tenant.Tagline }

// EscalationContact returns the address escalated issues are routed to.
func (s *Store) EscalationContact() string { return s.tenant.SLA.EscalationContact }

// PolicyKeys returns the policy catalog keys in catalog order.
func (s *Store) PolicyKeys() []string {
	keys := make([]string, 0, len(s.tenant.Policies))
	for _, p := range s.tenant.Policies {
		keys = append(keys, p.Key)
	}
	return keys
}
