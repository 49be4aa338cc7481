package routes

import (
	adminapi "studydeck-app/internal/api/admin"
	authapi "studydeck-app/internal/api/auth"
	"studydeck-app/internal/api/catalog"
	decksapi "studydeck-app/internal/api/decks"
	"studydeck-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.POST("/change-password", authapi.ChangePassword)

	auth.GET("/decks", decksapi.GetDecks)
	auth.GET("/decks/:id", decksapi.GetDeckByID)
	auth.POST("/decks", decksapi.CreateDeck)
	auth.PUT("/decks/:id", decksapi.UpdateDeck)
	auth.DELETE("/decks/:id", decksapi.DeleteDeck)
	auth.POST("/decks/:id/restore", decksapi.RestoreDeck)

	auth.POST("/decks/:id/cards", decksapi.CreateCard)
	auth.PUT("/cards/:id", decksapi.UpdateCard)
	auth.DELETE("/cards/:id", decksapi.DeleteCard)
	auth.PUT("/decks/:id/cards/reorder", decksapi.ReorderCards)

	auth.POST("/decks/:id/publish", catalog.PublishDeck)
	auth.POST("/decks/:id/unpublish", catalog.UnpublishDeck)

	auth.GET("/catalog", catalog.ListCatalog)
	auth.GET("/catalog/:id", catalog.GetCatalogDeck)
	auth.POST("/catalog/:id/import", catalog.ImportDeck)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.PUT("/users/:id/publish-ban", adminapi.SetPublishBan)
}
