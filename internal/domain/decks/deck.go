package decks

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deck is a user-owned, freely editable set of cards. A deck imported from
// the catalog is the same row shape with SourcePublishedID/LastSyncedAt set.
type Deck struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"-"`

	Name       string `gorm:"not null" json:"name"`
	Emoji      string `json:"emoji,omitempty"`
	Color      string `json:"color,omitempty"`
	Category   string `gorm:"index" json:"category,omitempty"`
	Subtopic   string `json:"subtopic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`

	// Bumped inside the same transaction as any card mutation. This is the
	// value the publish flow captures as the freshness anchor.
	ContentUpdatedAt time.Time `gorm:"not null" json:"content_updated_at"`

	IsPublished bool `gorm:"not null;default:false" json:"is_published"`

	// Set when this deck was created from a catalog snapshot.
	SourcePublishedID *string    `gorm:"type:uuid;index" json:"source_published_id,omitempty"`
	LastSyncedAt      *time.Time `json:"last_synced_at,omitempty"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	Cards []Card `gorm:"constraint:OnDelete:CASCADE;" json:"cards,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Deck) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.ContentUpdatedAt.IsZero() {
		d.ContentUpdatedAt = time.Now().UTC()
	}
	return nil
}

const (
	CardTypeClassicFlip    = "classic-flip"
	CardTypeMultipleChoice = "multiple-choice"
	CardTypeTypeAnswer     = "type-answer"
)

// Card belongs to a Deck. The type-specific answer sets live in a single
// Answers JSON blob; the published snapshot stores them as split columns
// (see PublishedCard), which is the transcoder's concern.
type Card struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	DeckID string `gorm:"type:uuid;not null;index:idx_cards_deck_position,priority:1" json:"-"`

	Type     string `gorm:"not null" json:"type"`
	Position int    `gorm:"not null;default:0;index:idx_cards_deck_position,priority:2" json:"position"`

	Front string `gorm:"type:text;not null" json:"front"`
	Back  string `gorm:"type:text" json:"back,omitempty"`

	// {"correct":[...],"incorrect":[...]} for multiple-choice,
	// {"accepted":[...]} for type-answer, null for classic-flip.
	Answers datatypes.JSON `json:"answers,omitempty"`

	ImagePath *string `json:"image_path,omitempty"`
	AudioPath *string `json:"audio_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
