package catalog

import (
	"testing"
	"time"

	"studydeck-app/internal/domain/decks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestImportCreatesIndependentCopy(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	importer := seedUser(t, db, "bob")
	d := seedDeck(t, db, owner.ID, "Math basics")

	_, _, err := publishDeck(db, owner.ID, d.ID, PublishDeckRequest{Category: "Math", Subtopic: "Algebra"})
	require.NoError(t, err)
	pd := loadPublished(t, db, d.ID)

	res, err := importOrSync(db, importer.ID, pd.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)
	assert.EqualValues(t, 1, res.CallerImportTotal)
	assert.Equal(t, 1, res.DeckDownloadTotal)
	assert.Equal(t, owner.ID, res.OwnerID)
	assert.EqualValues(t, 1, res.OwnerDownloadTotal)

	var imp decks.Deck
	require.NoError(t, db.
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&imp, "id = ?", res.DeckID).Error)
	assert.Equal(t, importer.ID, imp.UserID)
	require.NotNil(t, imp.SourcePublishedID)
	assert.Equal(t, pd.ID, *imp.SourcePublishedID)
	require.NotNil(t, imp.LastSyncedAt)
	assert.WithinDuration(t, decks.Freshness(&pd), *imp.LastSyncedAt, time.Millisecond)
	assert.Len(t, imp.Cards, 3)

	// copy-on-import: no card id shared with source or snapshot
	srcIDs := cardIDs(t, db, d.ID)
	for _, c := range imp.Cards {
		assert.False(t, srcIDs[c.ID], "imported card must have a fresh identity")
	}

	assert.Equal(t, 1, loadPublished(t, db, d.ID).DownloadCount)
}

func TestImportDedup(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	importer := seedUser(t, db, "bob")
	d := seedDeck(t, db, owner.ID, "Math basics")

	_, _, err := publishDeck(db, owner.ID, d.ID, PublishDeckRequest{Category: "Math"})
	require.NoError(t, err)
	pd := loadPublished(t, db, d.ID)

	_, err = importOrSync(db, importer.ID, pd.ID)
	require.NoError(t, err)

	_, err = importOrSync(db, importer.ID, pd.ID)
	require.ErrorIs(t, err, ErrUpToDate)

	var count int64
	require.NoError(t, db.Model(&decks.Deck{}).
		Where("user_id = ? AND source_published_id = ?", importer.ID, pd.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "second import must never create a duplicate")
	assert.Equal(t, 1, loadPublished(t, db, d.ID).DownloadCount)
}

func TestResyncAfterRepublish(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	importer := seedUser(t, db, "bob")
	d := seedDeck(t, db, owner.ID, "Math basics")
	req := PublishDeckRequest{Category: "Math"}

	_, _, err := publishDeck(db, owner.ID, d.ID, req)
	require.NoError(t, err)
	pd := loadPublished(t, db, d.ID)

	first, err := importOrSync(db, importer.ID, pd.ID)
	require.NoError(t, err)

	addCard(t, db, d.ID, "What is 3*3?")
	_, _, err = publishDeck(db, owner.ID, d.ID, req)
	require.NoError(t, err)

	res, err := importOrSync(db, importer.ID, pd.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.Equal(t, first.DeckID, res.DeckID, "resync updates the existing import in place")

	var imp decks.Deck
	require.NoError(t, db.Preload("Cards").First(&imp, "id = ?", res.DeckID).Error)
	assert.Len(t, imp.Cards, 4)
	require.NotNil(t, imp.LastSyncedAt)

	refreshed := loadPublished(t, db, d.ID)
	assert.WithinDuration(t, decks.Freshness(&refreshed), *imp.LastSyncedAt, time.Millisecond)

	// immediately in sync again
	_, err = importOrSync(db, importer.ID, pd.ID)
	require.ErrorIs(t, err, ErrUpToDate)
}

func TestImportOwnActiveDeckIsRejected(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	d := seedDeck(t, db, owner.ID, "Math basics")

	_, _, err := publishDeck(db, owner.ID, d.ID, PublishDeckRequest{Category: "Math"})
	require.NoError(t, err)
	pd := loadPublished(t, db, d.ID)

	_, err = importOrSync(db, owner.ID, pd.ID)
	require.ErrorIs(t, err, ErrAlreadyOwned)
}

func TestImportRestoresOwnDeletedDeck(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	d := seedDeck(t, db, owner.ID, "Math basics")

	_, _, err := publishDeck(db, owner.ID, d.ID, PublishDeckRequest{Category: "Math"})
	require.NoError(t, err)
	pd := loadPublished(t, db, d.ID)

	idsBefore := cardIDs(t, db, d.ID)
	now := time.Now().UTC()
	require.NoError(t, db.Model(&decks.Deck{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now}).Error)

	res, err := importOrSync(db, owner.ID, pd.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRestored, res.Outcome)
	assert.Equal(t, d.ID, res.DeckID)

	var restored decks.Deck
	require.NoError(t, db.First(&restored, "id = ?", d.ID).Error)
	assert.False(t, restored.IsDeleted)
	assert.Nil(t, restored.DeletedAt)

	assert.Equal(t, idsBefore, cardIDs(t, db, d.ID), "restore must keep the original card ids")
}

func TestImportRestoresDeletedImport(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	importer := seedUser(t, db, "bob")
	d := seedDeck(t, db, owner.ID, "Math basics")

	_, _, err := publishDeck(db, owner.ID, d.ID, PublishDeckRequest{Category: "Math"})
	require.NoError(t, err)
	pd := loadPublished(t, db, d.ID)

	first, err := importOrSync(db, importer.ID, pd.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&decks.Deck{}).
		Where("id = ?", first.DeckID).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": time.Now().UTC()}).Error)

	res, err := importOrSync(db, importer.ID, pd.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.Equal(t, first.DeckID, res.DeckID)

	var imp decks.Deck
	require.NoError(t, db.Preload("Cards").First(&imp, "id = ?", first.DeckID).Error)
	assert.False(t, imp.IsDeleted)
	assert.Len(t, imp.Cards, 3)
}

func TestImportUnknownOrUnpublishedDeck(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	importer := seedUser(t, db, "bob")
	d := seedDeck(t, db, owner.ID, "Math basics")

	_, err := importOrSync(db, importer.ID, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrNotFound)

	_, _, err = publishDeck(db, owner.ID, d.ID, PublishDeckRequest{Category: "Math"})
	require.NoError(t, err)
	pd := loadPublished(t, db, d.ID)
	require.NoError(t, unpublishDeck(db, owner.ID, false, d.ID))

	_, err = importOrSync(db, importer.ID, pd.ID)
	require.ErrorIs(t, err, ErrNotFound, "unpublished snapshots are not importable")
}

func TestImportCountsAcrossOwnersDecks(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	importer := seedUser(t, db, "bob")
	d1 := seedDeck(t, db, owner.ID, "Math basics")
	d2 := seedDeck(t, db, owner.ID, "More math")

	_, _, err := publishDeck(db, owner.ID, d1.ID, PublishDeckRequest{Category: "Math"})
	require.NoError(t, err)
	_, _, err = publishDeck(db, owner.ID, d2.ID, PublishDeckRequest{Category: "Math"})
	require.NoError(t, err)
	pd1 := loadPublished(t, db, d1.ID)
	pd2 := loadPublished(t, db, d2.ID)

	_, err = importOrSync(db, importer.ID, pd1.ID)
	require.NoError(t, err)

	res, err := importOrSync(db, importer.ID, pd2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.CallerImportTotal)
	assert.Equal(t, 1, res.DeckDownloadTotal)
	assert.EqualValues(t, 2, res.OwnerDownloadTotal, "milestone hook sees the owner's aggregate downloads")
}
