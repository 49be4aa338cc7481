package decks

import (
	"encoding/json"
	"time"

	dd "studydeck-app/internal/domain/decks"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func userDecksQuery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&dd.Deck{}).Where("user_id = ?", userID)
}

// touchDeckContent advances the deck's content clock. Runs inside the same
// transaction as the card mutation it accounts for; the publish flow
// captures this value as its freshness anchor.
func touchDeckContent(tx *gorm.DB, deckID string) error {
	return tx.Model(&dd.Deck{}).
		Where("id = ?", deckID).
		Update("content_updated_at", time.Now().UTC()).Error
}

func answersBlob(in *CardAnswersInput) (datatypes.JSON, error) {
	if in == nil {
		return nil, nil
	}
	b, err := json.Marshal(dd.CardAnswers{
		Correct:   in.Correct,
		Incorrect: in.Incorrect,
		Accepted:  in.Accepted,
	})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
