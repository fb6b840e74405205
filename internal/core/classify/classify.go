// Package classify assigns catalog categories through ordered keyword tables
// compiled from the embedded rules.json. List order is the only tie-break:
// the first rule with any matching keyword wins, so swapped tables must keep
// their ordering contract to classify identically
package classify

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"progdex/internal/core/catalog"
)

//go:embed rules.json
var embedded []byte

type rawPrimary struct {
	Category string   `json:"category"`
	Any      []string `json:"any"`
}

type rawSub struct {
	Sub string   `json:"sub"`
	Any []string `json:"any"`
}

type rawTables struct {
	Version         int          `json:"version"`
	DefaultCategory string       `json:"default_category"`
	Primary         []rawPrimary `json:"primary"`
	Subcategories   []rawSub     `json:"subcategories"`
}

// Rule is one ordered table entry; Keywords are lowercased substrings
type Rule struct {
	Label    string
	Keywords []string
}

// Tables is a compiled, ordered rule set ready for matching
type Tables struct {
	Version int
	Default catalog.Category
	Primary []Rule
	Subs    []Rule
}

// Load compiles the embedded rules.json
func Load() (*Tables, error) {
	return LoadBytes(embedded)
}

// LoadBytes compiles an alternate rule table carrying the same wire format,
// so deployments can swap keyword sets without touching callers
func LoadBytes(raw []byte) (*Tables, error) {
	var rt rawTables
	if err := json.Unmarshal(raw, &rt); err != nil {
		return nil, fmt.Errorf("classify: parse rules.json: %w", err)
	}
	if rt.Version != 1 {
		return nil, fmt.Errorf("classify: unsupported rules.json version %d (want 1)", rt.Version)
	}

	def := catalog.Category(rt.DefaultCategory)
	if !def.Valid() {
		return nil, fmt.Errorf("classify: default category %q not in the closed set", rt.DefaultCategory)
	}

	t := &Tables{Version: rt.Version, Default: def}
	for i, r := range rt.Primary {
		if !catalog.Category(r.Category).Valid() {
			return nil, fmt.Errorf("classify: primary rule %d: category %q not in the closed set", i, r.Category)
		}
		kws := normalizeKeywords(r.Any)
		if len(kws) == 0 {
			return nil, fmt.Errorf("classify: primary rule %d (%s): no usable keywords", i, r.Category)
		}
		t.Primary = append(t.Primary, Rule{Label: r.Category, Keywords: kws})
	}
	for i, r := range rt.Subcategories {
		if strings.TrimSpace(r.Sub) == "" {
			return nil, fmt.Errorf("classify: sub rule %d: empty label", i)
		}
		kws := normalizeKeywords(r.Any)
		if len(kws) == 0 {
			return nil, fmt.Errorf("classify: sub rule %d (%s): no usable keywords", i, r.Sub)
		}
		t.Subs = append(t.Subs, Rule{Label: r.Sub, Keywords: kws})
	}
	return t, nil
}

func normalizeKeywords(in []string) []string {
	var out []string
	for _, kw := range in {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// Keyword matches records against compiled tables. It satisfies
// catalog.Classifier and is safe for concurrent use
type Keyword struct {
	tables *Tables
}

// New builds a classifier over compiled tables
func New(t *Tables) *Keyword {
	return &Keyword{tables: t}
}

// Classify returns exactly one category from the closed set plus a
// sub-category string. Total over any input: no keyword match is the
// default-category outcome, never an error
func (k *Keyword) Classify(name, description string, topics []string) (catalog.Category, string) {
	cat, sub, _ := k.ClassifyTrace(name, description, topics)
	return cat, sub
}

// ClassifyTrace additionally reports which primary rule index matched,
// -1 for the default outcome
func (k *Keyword) ClassifyTrace(name, description string, topics []string) (catalog.Category, string, int) {
	hay := haystack(name, description, topics)

	cat := k.tables.Default
	label, idx := firstMatch(k.tables.Primary, hay)
	if idx >= 0 {
		cat = catalog.Category(label)
	}

	sub := string(cat)
	if s, i := firstMatch(k.tables.Subs, hay); i >= 0 {
		sub = s
	}
	return cat, sub, idx
}

// haystack folds the record's text fields into one lowercase string
func haystack(name, description string, topics []string) string {
	parts := make([]string, 0, 2+len(topics))
	parts = append(parts, name, description)
	parts = append(parts, topics...)
	return strings.ToLower(strings.Join(parts, " "))
}

// firstMatch walks rules in order and returns the first whose any keyword
// is a substring of hay
func firstMatch(rules []Rule, hay string) (string, int) {
	for i, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(hay, kw) {
				return r.Label, i
			}
		}
	}
	return "", -1
}
