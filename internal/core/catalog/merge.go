package catalog

// MergeLockKey is the pg advisory lock serializing every cross-process
// catalog mutation (scout merges, curator probes and removals). Whoever
// rewrites the snapshot document takes it first
const MergeLockKey = int64(874201)

// MergeResult carries the merged record set and the per-batch accounting
type MergeResult struct {
	Records []ProgramRecord
	Added   int      // identities first observed in this batch
	Updated int      // identities already present before this batch
	Skipped []string // raw identities rejected as malformed
}

// Merge folds incoming into existing keyed by case-insensitive identity.
// Present identities are refreshed in place, keeping their position and
// curated state; unknown identities append in batch order. A batch-internal
// collision resolves last-in-batch wins. Records without a usable identity
// are skipped and reported, never inserted. Neither input is mutated, and
// re-merging the same batch yields the same record set
func Merge(existing, incoming []ProgramRecord) MergeResult {
	out := make([]ProgramRecord, len(existing))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, r := range out {
		index[r.Key()] = i
	}

	var res MergeResult
	updated := make(map[string]struct{})
	appended := make(map[string]struct{})

	for _, in := range incoming {
		if !in.ValidIdentity() {
			res.Skipped = append(res.Skipped, in.FullName)
			continue
		}
		key := in.Key()
		if i, ok := index[key]; ok {
			out[i] = refresh(out[i], in)
			if _, fresh := appended[key]; !fresh {
				updated[key] = struct{}{}
			}
			continue
		}
		index[key] = len(out)
		out = append(out, in)
		appended[key] = struct{}{}
	}

	res.Records = out
	res.Added = len(appended)
	res.Updated = len(updated)
	return res
}

// refresh replaces old's collected fields with in's while carrying over the
// curated state the collector does not produce
func refresh(old, in ProgramRecord) ProgramRecord {
	in.Notes = old.Notes
	in.FlagReason = old.FlagReason
	in.FlaggedAt = old.FlaggedAt
	return in
}
