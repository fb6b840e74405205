package catalog

import (
	"sort"
	"strings"

	str "progdex/internal/platform/strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Classifier assigns a primary category and sub-category from a record's
// textual fields. Implementations must be total and deterministic
type Classifier interface {
	Classify(name, description string, topics []string) (Category, string)
}

// Search returns the records whose name, description, or any topic contains
// query case-insensitively. An empty query returns the input unchanged
func Search(records []ProgramRecord, query string) []ProgramRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	var out []ProgramRecord
	for _, r := range records {
		if matchesQuery(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matchesQuery(r ProgramRecord, q string) bool {
	if strings.Contains(strings.ToLower(r.Name), q) {
		return true
	}
	if r.Description != nil && strings.Contains(strings.ToLower(*r.Description), q) {
		return true
	}
	for _, t := range r.Topics {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Filters is a conjunctive predicate set; zero-valued fields impose no constraint
type Filters struct {
	Category    Category
	SubCategory string
	Language    string
	MinStars    int
	MaxStars    int
}

// Empty reports whether f imposes no constraint at all
func (f Filters) Empty() bool {
	return f.Category == "" && f.SubCategory == "" && f.Language == "" &&
		f.MinStars <= 0 && f.MaxStars <= 0
}

// Filter returns the records satisfying every set field of f. A record
// lacking a stored category is classified on the fly with clf for the
// comparison only; the returned records are never modified
func Filter(records []ProgramRecord, f Filters, clf Classifier) []ProgramRecord {
	if f.Empty() {
		return records
	}
	var out []ProgramRecord
	for _, r := range records {
		if f.keep(r, clf) {
			out = append(out, r)
		}
	}
	return out
}

func (f Filters) keep(r ProgramRecord, clf Classifier) bool {
	cat, sub := r.Category, r.SubCategory
	if cat == "" && clf != nil {
		cat, sub = clf.Classify(r.Name, str.Deref(r.Description), r.Topics)
	}
	if f.Category != "" && cat != f.Category {
		return false
	}
	if f.SubCategory != "" && !strings.EqualFold(sub, f.SubCategory) {
		return false
	}
	if f.Language != "" {
		if r.Language == nil || !strings.EqualFold(*r.Language, f.Language) {
			return false
		}
	}
	if f.MinStars > 0 && r.Stars < f.MinStars {
		return false
	}
	if f.MaxStars > 0 && r.Stars > f.MaxStars {
		return false
	}
	return true
}

// SortKey selects a Sort comparator
type SortKey string

const (
	SortStars   SortKey = "stars"   // descending star count
	SortUpdated SortKey = "updated" // most recently updated first
	SortName    SortKey = "name"    // ascending locale name order
)

// Sort returns a sorted copy of records; the input is never mutated. Ties
// keep their input order, and an unknown key returns the copy unsorted
func Sort(records []ProgramRecord, key SortKey) []ProgramRecord {
	out := make([]ProgramRecord, len(records))
	copy(out, records)
	switch key {
	case SortStars:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stars > out[j].Stars })
	case SortUpdated:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Updated.After(out[j].Updated) })
	case SortName:
		// collators keep internal buffers and are not safe to share
		col := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool { return col.CompareString(out[i].Name, out[j].Name) < 0 })
	}
	return out
}
