package catalog

import (
	"errors"
	"net/http"
	"time"

	"studydeck-app/database"
	"studydeck-app/internal/domain/decks"
	"studydeck-app/internal/domain/users"
	"studydeck-app/internal/hooks"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PublishDeckRequest struct {
	Category string `json:"category" binding:"required"`
	Subtopic string `json:"subtopic"`
}

// capturedMeta is the display metadata a snapshot carries: taken from the
// source deck at publish time, except category/subtopic which the owner
// chooses per publish call.
type capturedMeta struct {
	Name       string
	Emoji      string
	Color      string
	Category   string
	Subtopic   string
	Difficulty string
}

func captureMeta(d *decks.Deck, req PublishDeckRequest) capturedMeta {
	return capturedMeta{
		Name:       d.Name,
		Emoji:      d.Emoji,
		Color:      d.Color,
		Category:   req.Category,
		Subtopic:   req.Subtopic,
		Difficulty: d.Difficulty,
	}
}

func metaChanged(pd *decks.PublishedDeck, m capturedMeta) bool {
	return pd.Name != m.Name ||
		pd.Emoji != m.Emoji ||
		pd.Color != m.Color ||
		pd.Category != m.Category ||
		pd.Subtopic != m.Subtopic ||
		pd.Difficulty != m.Difficulty
}

// replacePublishedCards swaps the snapshot's card set for a fresh transcode
// of the source cards. Delete and insert run inside the caller's
// transaction; a half-replaced set is never visible.
func replacePublishedCards(tx *gorm.DB, pd *decks.PublishedDeck, cards []decks.Card) error {
	if err := tx.Where("published_deck_id = ?", pd.ID).Delete(&decks.PublishedCard{}).Error; err != nil {
		return err
	}
	for i, card := range cards {
		pc, err := decks.ToPublishedCard(card, pd.ID, i)
		if err != nil {
			return err
		}
		if err := tx.Create(&pc).Error; err != nil {
			return err
		}
	}
	return nil
}

// publishDeck creates or refreshes the catalog snapshot for one deck. The
// returned bool reports whether this call made the deck publicly visible
// (first publish or republish), which is what the published hook fires on.
func publishDeck(db *gorm.DB, userID uint, deckID string, req PublishDeckRequest) (*decks.PublishedDeck, bool, error) {
	var out decks.PublishedDeck
	wentPublic := false

	err := db.Transaction(func(tx *gorm.DB) error {
		var u users.User
		if err := tx.First(&u, userID).Error; err != nil {
			return err
		}
		if u.PublishBanned {
			return ErrPublishBanned
		}

		var d decks.Deck
		err := tx.
			Preload("Cards", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			First(&d, "id = ? AND is_deleted = ?", deckID, false).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if d.UserID != userID {
			return ErrForbidden
		}
		if len(d.Cards) == 0 {
			return ErrDeckEmpty
		}

		meta := captureMeta(&d, req)

		var pd decks.PublishedDeck
		err = tx.First(&pd, "original_id = ?", d.ID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First publish: new snapshot at version 1.
			now := time.Now().UTC()
			anchor := d.ContentUpdatedAt
			pd = decks.PublishedDeck{
				OriginalID:             d.ID,
				UserID:                 d.UserID,
				Name:                   meta.Name,
				Emoji:                  meta.Emoji,
				Color:                  meta.Color,
				Category:               meta.Category,
				Subtopic:               meta.Subtopic,
				Difficulty:             meta.Difficulty,
				Version:                1,
				SourceContentUpdatedAt: &anchor,
				IsPublished:            true,
				PublishedAt:            &now,
			}
			if err := tx.Create(&pd).Error; err != nil {
				return err
			}
			for i, card := range d.Cards {
				pc, err := decks.ToPublishedCard(card, pd.ID, i)
				if err != nil {
					return err
				}
				if err := tx.Create(&pc).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(&decks.Deck{}).
				Where("id = ?", d.ID).
				Update("is_published", true).Error; err != nil {
				return err
			}
			wentPublic = true
			out = pd
			return nil
		}

		cardsChanged := pd.SourceContentUpdatedAt == nil ||
			d.ContentUpdatedAt.After(*pd.SourceContentUpdatedAt)
		changedMeta := metaChanged(&pd, meta)
		republish := !pd.IsPublished

		if !republish && !changedMeta && !cardsChanged {
			return ErrNoChanges
		}

		// Capture the freshness anchor before any mutation below; capturing
		// after the card replace would compare the anchor against itself on
		// the next publish.
		anchor := d.ContentUpdatedAt

		if err := replacePublishedCards(tx, &pd, d.Cards); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"version":                   pd.Version + 1,
			"source_content_updated_at": anchor,
			"name":                      meta.Name,
			"emoji":                     meta.Emoji,
			"color":                     meta.Color,
			"category":                  meta.Category,
			"subtopic":                  meta.Subtopic,
			"difficulty":                meta.Difficulty,
		}
		if republish {
			updates["is_published"] = true
			updates["published_at"] = time.Now().UTC()
			wentPublic = true
		}

		// Conditional on the version we read: a concurrent publish on the
		// same snapshot loses instead of silently overwriting.
		res := tx.Model(&decks.PublishedDeck{}).
			Where("id = ? AND version = ?", pd.ID, pd.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}

		if err := tx.Model(&decks.Deck{}).
			Where("id = ?", d.ID).
			Update("is_published", true).Error; err != nil {
			return err
		}

		return tx.First(&out, "id = ?", pd.ID).Error
	})

	if err != nil {
		return nil, false, err
	}
	return &out, wentPublic, nil
}

// unpublishDeck hides the snapshot from the catalog without touching its
// cards. Calling it on an already-unpublished deck is a no-op success.
func unpublishDeck(db *gorm.DB, userID uint, isAdmin bool, deckID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var pd decks.PublishedDeck
		if err := tx.First(&pd, "original_id = ?", deckID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if pd.UserID != userID && !isAdmin {
			return ErrForbidden
		}
		if pd.IsPublished {
			if err := tx.Model(&decks.PublishedDeck{}).
				Where("id = ?", pd.ID).
				Update("is_published", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&decks.Deck{}).
			Where("id = ?", pd.OriginalID).
			Update("is_published", false).Error
	})
}

// ------------------------------
// POST /decks/:id/publish
// ------------------------------
func PublishDeck(c *gin.Context) {
	deckID := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req PublishDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pd, wentPublic, err := publishDeck(database.DB, userID, deckID, req)
	if err != nil {
		respondError(c, err, "Failed to publish deck")
		return
	}

	if wentPublic {
		hooks.Emit(hooks.EventPublished, map[string]any{
			"user_id":           pd.UserID,
			"deck_id":           pd.OriginalID,
			"published_deck_id": pd.ID,
			"version":           pd.Version,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      pd.ID,
		"version": pd.Version,
		"status":  "published",
	})
}

// ------------------------------
// POST /decks/:id/unpublish
// ------------------------------
func UnpublishDeck(c *gin.Context) {
	deckID := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	isAdmin := c.GetString("role") == "admin"

	if err := unpublishDeck(database.DB, userID, isAdmin, deckID); err != nil {
		respondError(c, err, "Failed to unpublish deck")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unpublished"})
}
