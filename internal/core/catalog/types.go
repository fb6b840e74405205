// Package catalog holds the program catalog's domain types and the pure
// merge/search/filter/sort operations over them
package catalog

import (
	"strings"
	"time"

	perr "progdex/internal/platform/errors"
)

// Category is the closed set of primary classifications a record can carry
type Category string

const (
	CategoryExchange         Category = "Exchange"
	CategoryCollectibleToken Category = "CollectibleToken"
	CategoryLending          Category = "Lending"
	CategoryStaking          Category = "Staking"
	CategoryGeneralFinance   Category = "GeneralFinance"
	CategoryGovernance       Category = "Governance"
	CategoryAutomatedTrading Category = "AutomatedTrading"

	// CategoryInfrastructure is the default when no classification rule matches
	CategoryInfrastructure Category = "Infrastructure"
)

// Categories returns the closed category set in display order
func Categories() []Category {
	return []Category{
		CategoryExchange,
		CategoryCollectibleToken,
		CategoryLending,
		CategoryStaking,
		CategoryGeneralFinance,
		CategoryGovernance,
		CategoryAutomatedTrading,
		CategoryInfrastructure,
	}
}

// Valid reports whether c is a member of the closed set
func (c Category) Valid() bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// Flag reasons the curator records on removal candidates
const (
	FlagNotFound     = "not_found"
	FlagAccessDenied = "access_denied"
)

// ProgramRecord is one cataloged repository
type ProgramRecord struct {
	FullName      string    `json:"full_name"`
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	Description   *string   `json:"description,omitempty"`
	Stars         int       `json:"stars"`
	Language      *string   `json:"language,omitempty"`
	Topics        []string  `json:"topics,omitempty"`
	Updated       time.Time `json:"updated"`
	DefaultBranch string    `json:"default_branch"`
	Category      Category  `json:"category"`
	SubCategory   string    `json:"sub_category,omitempty"`

	// curated state; never produced by collection and preserved across merges
	Notes      *string    `json:"notes,omitempty"`
	FlagReason string     `json:"flag_reason,omitempty"`
	FlaggedAt  *time.Time `json:"flagged_at,omitempty"`
}

// Key returns the case-insensitive identity used for deduplication
func (r ProgramRecord) Key() string { return strings.ToLower(r.FullName) }

// ValidIdentity reports whether r carries a usable "owner/name" identity
func (r ProgramRecord) ValidIdentity() bool {
	_, _, ok := SplitFullName(r.FullName)
	return ok
}

// Flagged reports whether the curator has marked r as a removal candidate
func (r ProgramRecord) Flagged() bool { return r.FlagReason != "" }

// SplitFullName breaks an "owner/name" identity into its parts.
// ok is false when the separator is missing or either side is blank
func SplitFullName(full string) (owner, name string, ok bool) {
	o, n, found := strings.Cut(full, "/")
	o = strings.TrimSpace(o)
	n = strings.TrimSpace(n)
	if !found || o == "" || n == "" {
		return "", "", false
	}
	return o, n, true
}

// Snapshot is the full record set plus provenance metadata. Its JSON form is
// the portable source of truth; the relational mirror is a rebuildable
// projection of it, never the reverse
type Snapshot struct {
	ScrapedAt        time.Time       `json:"scraped_at"`
	TotalRepos       int             `json:"total_repos"`
	KeywordsSearched []string        `json:"keywords_searched"`
	Repos            []ProgramRecord `json:"repos"`
}

// NewSnapshot stamps a snapshot whose declared count matches the record set
func NewSnapshot(at time.Time, keywords []string, repos []ProgramRecord) Snapshot {
	return Snapshot{
		ScrapedAt:        at,
		TotalRepos:       len(repos),
		KeywordsSearched: keywords,
		Repos:            repos,
	}
}

// Validate rejects corrupt documents whose declared count disagrees with the
// record set they carry
func (s Snapshot) Validate() error {
	if s.TotalRepos != len(s.Repos) {
		return perr.InvalidArgf("snapshot declares %d repos but carries %d", s.TotalRepos, len(s.Repos))
	}
	return nil
}

// Find returns the record matching the case-insensitive identity, if any
func (s Snapshot) Find(fullName string) (ProgramRecord, bool) {
	key := strings.ToLower(fullName)
	for _, r := range s.Repos {
		if r.Key() == key {
			return r, true
		}
	}
	return ProgramRecord{}, false
}

// DiscoveryLog records a single collection pass, overwritten per run
type DiscoveryLog struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Queries   []string  `json:"queries"`
	Added     int       `json:"added"`
	Updated   int       `json:"updated"`
	Skipped   int       `json:"skipped"`
	Errors    []string  `json:"errors,omitempty"`
}
