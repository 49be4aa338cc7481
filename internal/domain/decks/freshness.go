package decks

import "time"

// Freshness is the revision marker importers compare their last_synced_at
// against. It is always read from values already stored on the published
// row; falling back to the row's own updated_at covers snapshots written
// before source_content_updated_at existed.
func Freshness(pd *PublishedDeck) time.Time {
	if pd.SourceContentUpdatedAt != nil {
		return *pd.SourceContentUpdatedAt
	}
	return pd.UpdatedAt
}

// IsStale reports whether an imported copy needs a resync. Never-synced is
// always stale; an equal instant is up to date.
func IsStale(lastSynced *time.Time, freshness time.Time) bool {
	if lastSynced == nil {
		return true
	}
	return lastSynced.Before(freshness)
}
