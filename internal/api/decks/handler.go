package decks

import (
	"errors"
	"net/http"
	"time"

	"studydeck-app/database"
	dd "studydeck-app/internal/domain/decks"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func validCardType(t string) bool {
	switch t {
	case dd.CardTypeClassicFlip, dd.CardTypeMultipleChoice, dd.CardTypeTypeAnswer:
		return true
	}
	return false
}

// ------------------------------
// GET /decks  (?deleted=true includes soft-deleted decks)
// ------------------------------
func GetDecks(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	q := userDecksQuery(database.DB, userID).
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC")
	if c.Query("deleted") != "true" {
		q = q.Where("is_deleted = ?", false)
	}

	var out []dd.Deck
	if err := q.Find(&out).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load decks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"decks": out})
}

// ------------------------------
// GET /decks/:id
// ------------------------------
func GetDeckByID(c *gin.Context) {
	id := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var d dd.Deck
	err := database.DB.
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&d, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load deck"})
		return
	}

	c.JSON(http.StatusOK, d)
}

// ------------------------------
// POST /decks
// ------------------------------
func CreateDeck(c *gin.Context) {
	var req CreateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	for _, in := range req.Cards {
		if !validCardType(in.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown card type: " + in.Type})
			return
		}
	}

	var deckID string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		d := dd.Deck{
			UserID:           userID,
			Name:             req.Name,
			Emoji:            req.Emoji,
			Color:            req.Color,
			Category:         req.Category,
			Subtopic:         req.Subtopic,
			Difficulty:       req.Difficulty,
			ContentUpdatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		deckID = d.ID

		for i, in := range req.Cards {
			pos := i
			if in.Position != nil {
				pos = *in.Position
			}
			blob, err := answersBlob(in.Answers)
			if err != nil {
				return err
			}
			card := dd.Card{
				DeckID:    d.ID,
				Type:      in.Type,
				Position:  pos,
				Front:     in.Front,
				Back:      in.Back,
				Answers:   blob,
				ImagePath: in.ImagePath,
				AudioPath: in.AudioPath,
			}
			if err := tx.Create(&card).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create deck", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": deckID})
}

// ------------------------------
// PUT /decks/:id  (metadata only, cards have their own endpoints)
// ------------------------------
func UpdateDeck(c *gin.Context) {
	id := c.Param("id")

	var req UpdateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Emoji != nil {
		updates["emoji"] = *req.Emoji
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Subtopic != nil {
		updates["subtopic"] = *req.Subtopic
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	res := database.DB.Model(&dd.Deck{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update deck"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ------------------------------
// DELETE /decks/:id  (soft delete; the catalog snapshot is unaffected)
// ------------------------------
func DeleteDeck(c *gin.Context) {
	id := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	res := database.DB.Model(&dd.Deck{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": time.Now().UTC(),
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete deck"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ------------------------------
// POST /decks/:id/restore
// ------------------------------
func RestoreDeck(c *gin.Context) {
	id := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	// In-place flag flip: card rows were never touched by the soft delete,
	// so their ids survive the round trip.
	res := database.DB.Model(&dd.Deck{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, true).
		Updates(map[string]interface{}{
			"is_deleted": false,
			"deleted_at": nil,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore deck"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}

// ------------------------------
// POST /decks/:id/cards
// ------------------------------
func CreateCard(c *gin.Context) {
	deckID := c.Param("id")

	var req CardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validCardType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown card type: " + req.Type})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var cardID string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var d dd.Deck
		if err := tx.First(&d, "id = ? AND user_id = ? AND is_deleted = ?", deckID, userID, false).Error; err != nil {
			return err
		}

		pos := 0
		if req.Position != nil {
			pos = *req.Position
		} else {
			var count int64
			if err := tx.Model(&dd.Card{}).Where("deck_id = ?", d.ID).Count(&count).Error; err != nil {
				return err
			}
			pos = int(count)
		}

		blob, err := answersBlob(req.Answers)
		if err != nil {
			return err
		}
		card := dd.Card{
			DeckID:    d.ID,
			Type:      req.Type,
			Position:  pos,
			Front:     req.Front,
			Back:      req.Back,
			Answers:   blob,
			ImagePath: req.ImagePath,
			AudioPath: req.AudioPath,
		}
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		cardID = card.ID

		return touchDeckContent(tx, d.ID)
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create card", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": cardID})
}

// ------------------------------
// PUT /cards/:id
// ------------------------------
func UpdateCard(c *gin.Context) {
	id := c.Param("id")

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var card dd.Card
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			return err
		}
		var d dd.Deck
		if err := tx.First(&d, "id = ? AND user_id = ? AND is_deleted = ?", card.DeckID, userID, false).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Position != nil {
			updates["position"] = *req.Position
		}
		if req.Front != nil {
			updates["front"] = *req.Front
		}
		if req.Back != nil {
			updates["back"] = *req.Back
		}
		if req.Answers != nil {
			blob, err := answersBlob(req.Answers)
			if err != nil {
				return err
			}
			updates["answers"] = blob
		}
		if req.ImagePath != nil {
			updates["image_path"] = *req.ImagePath
		}
		if req.AudioPath != nil {
			updates["audio_path"] = *req.AudioPath
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&dd.Card{}).Where("id = ?", card.ID).Updates(updates).Error; err != nil {
			return err
		}
		return touchDeckContent(tx, d.ID)
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update card", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ------------------------------
// DELETE /cards/:id
// ------------------------------
func DeleteCard(c *gin.Context) {
	id := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var card dd.Card
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			return err
		}
		var d dd.Deck
		if err := tx.First(&d, "id = ? AND user_id = ? AND is_deleted = ?", card.DeckID, userID, false).Error; err != nil {
			return err
		}

		if err := tx.Delete(&dd.Card{}, "id = ?", card.ID).Error; err != nil {
			return err
		}
		return touchDeckContent(tx, d.ID)
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete card", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ------------------------------
// PUT /decks/:id/cards/reorder
// ------------------------------
func ReorderCards(c *gin.Context) {
	deckID := c.Param("id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req ReorderCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.CardIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card_ids required"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var d dd.Deck
		if err := tx.First(&d, "id = ? AND user_id = ? AND is_deleted = ?", deckID, userID, false).Error; err != nil {
			return err
		}

		for i, cardID := range req.CardIDs {
			if err := tx.Model(&dd.Card{}).
				Where("id = ? AND deck_id = ?", cardID, d.ID).
				Update("position", i).Error; err != nil {
				return err
			}
		}
		return touchDeckContent(tx, d.ID)
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder cards", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
