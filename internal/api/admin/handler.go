package admin

import (
	"net/http"
	"time"

	"studydeck-app/database"
	"studydeck-app/internal/domain/decks"
	"studydeck-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	PublishBanned bool      `json:"publish_banned"`
	CreatedAt     time.Time `json:"created_at"`
}

type AdminStats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalDecks     int64 `json:"total_decks"`
	PublishedDecks int64 `json:"published_decks"`
	TotalDownloads int64 `json:"total_downloads"`
}

func AdminDashboard(c *gin.Context) {
	var stats AdminStats

	if err := database.DB.Model(&users.User{}).Count(&stats.TotalUsers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	if err := database.DB.Model(&decks.Deck{}).
		Where("is_deleted = ?", false).
		Count(&stats.TotalDecks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	if err := database.DB.Model(&decks.PublishedDeck{}).
		Where("is_published = ? AND is_deleted = ?", true, false).
		Count(&stats.PublishedDecks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	if err := database.DB.Model(&decks.PublishedDeck{}).
		Select("COALESCE(SUM(download_count), 0)").
		Scan(&stats.TotalDownloads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Order("created_at DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	out := make([]AdminUser, 0, len(all))
	for _, u := range all {
		out = append(out, AdminUser{
			ID:            u.ID,
			Name:          u.Name,
			Email:         u.Email,
			Role:          u.Role,
			PublishBanned: u.PublishBanned,
			CreatedAt:     u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// PUT /admin/users/:id/publish-ban
func SetPublishBan(c *gin.Context) {
	id := c.Param("id")

	var body struct {
		Banned *bool `json:"banned" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "banned required"})
		return
	}

	res := database.DB.Model(&users.User{}).
		Where("id = ?", id).
		Update("publish_banned", *body.Banned)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
