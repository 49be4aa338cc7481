package catalog

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"studydeck-app/database"
	"studydeck-app/internal/domain/decks"
	"studydeck-app/internal/domain/users"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache DBs keep gorm's pooled connections on the same
	// in-memory database while isolating tests from each other.
	dsn := fmt.Sprintf("file:catalog_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) users.User {
	t.Helper()

	u := users.User{Name: name, Email: name + "@example.com", Role: "user"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func mustAnswers(t *testing.T, a decks.CardAnswers) datatypes.JSON {
	t.Helper()

	b, err := json.Marshal(a)
	require.NoError(t, err)
	return datatypes.JSON(b)
}

// seedDeck creates a deck with one card of each type.
func seedDeck(t *testing.T, db *gorm.DB, userID uint, name string) decks.Deck {
	t.Helper()

	d := decks.Deck{
		UserID:           userID,
		Name:             name,
		Emoji:            "📚",
		Color:            "#336699",
		Difficulty:       "medium",
		ContentUpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&d).Error)

	cards := []decks.Card{
		{
			DeckID:   d.ID,
			Type:     decks.CardTypeClassicFlip,
			Position: 0,
			Front:    "What is 2+2?",
			Back:     "4",
		},
		{
			DeckID:   d.ID,
			Type:     decks.CardTypeMultipleChoice,
			Position: 1,
			Front:    "Which are prime?",
			Answers: mustAnswers(t, decks.CardAnswers{
				Correct:   []string{"2", "3"},
				Incorrect: []string{"4", "6"},
			}),
		},
		{
			DeckID:   d.ID,
			Type:     decks.CardTypeTypeAnswer,
			Position: 2,
			Front:    "Capital of France?",
			Answers: mustAnswers(t, decks.CardAnswers{
				Accepted: []string{"Paris", "paris"},
			}),
		},
	}
	for i := range cards {
		require.NoError(t, db.Create(&cards[i]).Error)
	}
	return d
}

// addCard appends a classic-flip card and advances the deck's content clock
// strictly past the previous value, the way the CRUD layer does inside one
// transaction.
func addCard(t *testing.T, db *gorm.DB, deckID string, front string) {
	t.Helper()

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var d decks.Deck
		if err := tx.First(&d, "id = ?", deckID).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&decks.Card{}).Where("deck_id = ?", deckID).Count(&count).Error; err != nil {
			return err
		}
		card := decks.Card{
			DeckID:   deckID,
			Type:     decks.CardTypeClassicFlip,
			Position: int(count),
			Front:    front,
			Back:     "answer",
		}
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		return tx.Model(&decks.Deck{}).
			Where("id = ?", deckID).
			Update("content_updated_at", d.ContentUpdatedAt.Add(time.Second)).Error
	}))
}

func loadPublished(t *testing.T, db *gorm.DB, originalID string) decks.PublishedDeck {
	t.Helper()

	var pd decks.PublishedDeck
	require.NoError(t, db.
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&pd, "original_id = ?", originalID).Error)
	return pd
}

func cardIDs(t *testing.T, db *gorm.DB, deckID string) map[string]bool {
	t.Helper()

	var cards []decks.Card
	require.NoError(t, db.Find(&cards, "deck_id = ?", deckID).Error)
	out := make(map[string]bool, len(cards))
	for _, c := range cards {
		out[c.ID] = true
	}
	return out
}
