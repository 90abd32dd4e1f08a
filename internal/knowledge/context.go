package knowledge

import (
	"fmt"
	"sort"
	"strings"
)

// Context assembles the knowledge text injected into prompts. Passing policy
// keys (e.g. ["billing", "sow_terms"]) scopes the policy section; nil or
// empty includes every policy. Unknown keys are dropped without error. The
// output is a pure function of the tenant record and the key set.
func (s *Store) Context(categories []string) string {
	sections := []string{
		"COMPANY OVERVIEW:\n" + strings.TrimSpace(s.tenant.Overview),
		"BRAND VOICE:\n" + strings.TrimSpace(s.tenant.BrandVoice),
		"SLA STANDARDS:\n" + s.renderSLA(),
		"ESCALATION CONTACT: " + s.tenant.SLA.EscalationContact,
	}

	policies := s.scopePolicies(categories)
	if len(policies) > 0 {
		var b strings.Builder
		b.WriteString("RELEVANT POLICIES:")
		for _, p := range policies {
			b.WriteString("\n" + p.Key + ":")
			writeValue(&b, p.Facts, 1)
		}
		sections = append(sections, b.String())
	}

	if len(s.tenant.FAQ) > 0 {
		pairs := make([]string, 0, len(s.tenant.FAQ))
		for _, item := range s.tenant.FAQ {
			pairs = append(pairs, "Q: "+item.Q+"\nA: "+item.A)
		}
		sections = append(sections, "FAQ:\n"+strings.Join(pairs, "\n"))
	}

	var contacts strings.Builder
	contacts.WriteString("CONTACT DIRECTORY:")
	for _, key := range sortedKeys(s.tenant.Contacts) {
		contacts.WriteString("\n" + key + ": " + s.tenant.Contacts[key])
	}
	sections = append(sections, contacts.String())

	return strings.Join(sections, "\n\n")
}

// scopePolicies filters the catalog to the requested keys, preserving
// catalog order. Empty input means the full catalog.
func (s *Store) scopePolicies(categories []string) []Entry {
	if len(categories) == 0 {
		return s.tenant.Policies
	}
	requested := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		requested[c] = struct{}{}
	}
	var scoped []Entry
	for _, p := range s.tenant.Policies {
		if _, ok := requested[p.Key]; ok {
			scoped = append(scoped, p)
		}
	}
	return scoped
}

func (s *Store) renderSLA() string {
	var b strings.Builder
	b.WriteString("response_times:")
	for _, key := range sortedKeys(s.tenant.SLA.ResponseTimes) {
		b.WriteString("\n  " + key + ": " + s.tenant.SLA.ResponseTimes[key])
	}
	b.WriteString("\nescalation_triggers: " + strings.Join(s.tenant.SLA.EscalationTriggers, ", "))
	b.WriteString("\nescalation_contact: " + s.tenant.SLA.EscalationContact)
	return b.String()
}

// writeValue renders a nested fact value. Maps indent one level per depth
// with keys sorted for deterministic output; lists join inline.
func writeValue(b *strings.Builder, v any, depth int) {
	prefix := strings.Repeat("  ", depth)
	switch val := v.(type) {
	case map[string]any:
		for _, key := range sortedKeys(val) {
			child := val[key]
			if m, ok := child.(map[string]any); ok {
				b.WriteString("\n" + prefix + key + ":")
				writeValue(b, m, depth+1)
				continue
			}
			b.WriteString("\n" + prefix + key + ": " + scalarString(child))
		}
	default:
		b.WriteString("\n" + prefix + scalarString(v))
	}
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, scalarString(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
