package catalog

import (
	"errors"
	"net/http"
	"time"

	"studydeck-app/database"
	"studydeck-app/internal/domain/decks"
	"studydeck-app/internal/hooks"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ImportOutcome string

const (
	OutcomeCreated  ImportOutcome = "created"
	OutcomeUpdated  ImportOutcome = "updated"
	OutcomeRestored ImportOutcome = "restored"
)

type importResult struct {
	Outcome ImportOutcome
	DeckID  string

	// filled on OutcomeCreated only, consumed by the hooks
	CallerImportTotal  int64
	DeckDownloadTotal  int
	OwnerID            uint
	OwnerDownloadTotal int64
	PublishedDeckID    string
}

// refreshImportedDeck replaces an imported deck's content from the snapshot:
// old cards are dropped, fresh transcoded copies inserted, metadata aligned
// and last_synced_at advanced to the freshness value computed by the caller.
func refreshImportedDeck(tx *gorm.DB, imp *decks.Deck, pd *decks.PublishedDeck, freshness time.Time) error {
	if err := tx.Where("deck_id = ?", imp.ID).Delete(&decks.Card{}).Error; err != nil {
		return err
	}
	for i, pc := range pd.Cards {
		card, err := decks.FromPublishedCard(pc, imp.ID, i)
		if err != nil {
			return err
		}
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
	}
	return tx.Model(&decks.Deck{}).
		Where("id = ?", imp.ID).
		Updates(map[string]interface{}{
			"name":               pd.Name,
			"emoji":              pd.Emoji,
			"color":              pd.Color,
			"category":           pd.Category,
			"subtopic":           pd.Subtopic,
			"difficulty":         pd.Difficulty,
			"content_updated_at": time.Now().UTC(),
			"last_synced_at":     freshness,
		}).Error
}

// importOrSync pulls a published deck into the caller's library. Branches in
// priority order: restore the caller's own soft-deleted original, reject an
// active own deck, refresh an existing import, or create a new one.
func importOrSync(db *gorm.DB, userID uint, publishedID string) (*importResult, error) {
	var out importResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var pd decks.PublishedDeck
		err := tx.
			Preload("Cards", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			First(&pd, "id = ? AND is_published = ? AND is_deleted = ?", publishedID, true, false).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Computed once, read by every branch below. The stored anchor is
		// authoritative; updated_at only covers rows that predate it.
		freshness := decks.Freshness(&pd)

		// Branch 1/2: the caller owns the original.
		var original decks.Deck
		err = tx.First(&original, "id = ?", pd.OriginalID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && original.UserID == userID {
			if !original.IsDeleted {
				return ErrAlreadyOwned
			}
			// Restore in place: the cards were never touched by the soft
			// delete, so their ids survive.
			if err := tx.Model(&decks.Deck{}).
				Where("id = ?", original.ID).
				Updates(map[string]interface{}{
					"is_deleted": false,
					"deleted_at": nil,
				}).Error; err != nil {
				return err
			}
			out = importResult{Outcome: OutcomeRestored, DeckID: original.ID}
			return nil
		}

		// Branch 3: the caller already imported this snapshot.
		var imp decks.Deck
		err = tx.First(&imp, "user_id = ? AND source_published_id = ?", userID, pd.ID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			if imp.IsDeleted {
				if err := tx.Model(&decks.Deck{}).
					Where("id = ?", imp.ID).
					Updates(map[string]interface{}{
						"is_deleted": false,
						"deleted_at": nil,
					}).Error; err != nil {
					return err
				}
			} else if !decks.IsStale(imp.LastSyncedAt, freshness) {
				return ErrUpToDate
			}
			if err := refreshImportedDeck(tx, &imp, &pd, freshness); err != nil {
				return err
			}
			out = importResult{Outcome: OutcomeUpdated, DeckID: imp.ID}
			return nil
		}

		// Branch 4: first import, copy everything with fresh identities.
		newDeck := decks.Deck{
			UserID:            userID,
			Name:              pd.Name,
			Emoji:             pd.Emoji,
			Color:             pd.Color,
			Category:          pd.Category,
			Subtopic:          pd.Subtopic,
			Difficulty:        pd.Difficulty,
			ContentUpdatedAt:  time.Now().UTC(),
			SourcePublishedID: &pd.ID,
			LastSyncedAt:      &freshness,
		}
		if err := tx.Create(&newDeck).Error; err != nil {
			return err
		}
		for i, pc := range pd.Cards {
			card, err := decks.FromPublishedCard(pc, newDeck.ID, i)
			if err != nil {
				return err
			}
			if err := tx.Create(&card).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&decks.PublishedDeck{}).
			Where("id = ?", pd.ID).
			Update("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
			return err
		}

		var callerImports int64
		if err := tx.Model(&decks.Deck{}).
			Where("user_id = ? AND source_published_id IS NOT NULL AND is_deleted = ?", userID, false).
			Count(&callerImports).Error; err != nil {
			return err
		}
		var ownerDownloads int64
		if err := tx.Model(&decks.PublishedDeck{}).
			Where("user_id = ?", pd.UserID).
			Select("COALESCE(SUM(download_count), 0)").
			Scan(&ownerDownloads).Error; err != nil {
			return err
		}

		out = importResult{
			Outcome:            OutcomeCreated,
			DeckID:             newDeck.ID,
			CallerImportTotal:  callerImports,
			DeckDownloadTotal:  pd.DownloadCount + 1,
			OwnerID:            pd.UserID,
			OwnerDownloadTotal: ownerDownloads,
			PublishedDeckID:    pd.ID,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ------------------------------
// POST /catalog/:id/import
// ------------------------------
func ImportDeck(c *gin.Context) {
	publishedID := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	res, err := importOrSync(database.DB, userID, publishedID)
	if err != nil {
		respondError(c, err, "Failed to import deck")
		return
	}

	if res.Outcome == OutcomeCreated {
		hooks.Emit(hooks.EventImported, map[string]any{
			"user_id":           userID,
			"published_deck_id": res.PublishedDeckID,
			"deck_id":           res.DeckID,
			"total_imports":     res.CallerImportTotal,
		})
		hooks.Emit(hooks.EventDownloadMilestone, map[string]any{
			"published_deck_id": res.PublishedDeckID,
			"download_count":    res.DeckDownloadTotal,
			"owner_id":          res.OwnerID,
			"owner_downloads":   res.OwnerDownloadTotal,
		})
	}

	status := http.StatusOK
	if res.Outcome == OutcomeCreated {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"deck_id": res.DeckID,
		"status":  string(res.Outcome),
	})
}
