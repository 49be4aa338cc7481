package catalog

import (
	"errors"
	"net/http"

	"studydeck-app/database"
	"studydeck-app/internal/domain/decks"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogEntryDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Emoji         string `json:"emoji,omitempty"`
	Color         string `json:"color,omitempty"`
	Category      string `json:"category,omitempty"`
	Subtopic      string `json:"subtopic,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
	Version       int    `json:"version"`
	DownloadCount int    `json:"download_count"`
	CardCount     int    `json:"card_count"`
}

func publishedQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&decks.PublishedDeck{}).
		Where("is_published = ? AND is_deleted = ?", true, false)
}

// ------------------------------
// GET /catalog?category=...
// ------------------------------
func ListCatalog(c *gin.Context) {
	q := publishedQuery(database.DB).
		Preload("Cards").
		Order("download_count DESC, created_at DESC")

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var published []decks.PublishedDeck
	if err := q.Find(&published).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	out := make([]CatalogEntryDTO, 0, len(published))
	for _, pd := range published {
		out = append(out, CatalogEntryDTO{
			ID:            pd.ID,
			Name:          pd.Name,
			Emoji:         pd.Emoji,
			Color:         pd.Color,
			Category:      pd.Category,
			Subtopic:      pd.Subtopic,
			Difficulty:    pd.Difficulty,
			Version:       pd.Version,
			DownloadCount: pd.DownloadCount,
			CardCount:     len(pd.Cards),
		})
	}

	c.JSON(http.StatusOK, gin.H{"decks": out})
}

// ------------------------------
// GET /catalog/:id
// ------------------------------
func GetCatalogDeck(c *gin.Context) {
	id := c.Param("id")

	var pd decks.PublishedDeck
	err := publishedQuery(database.DB).
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&pd, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load deck"})
		return
	}

	c.JSON(http.StatusOK, pd)
}
