package decks

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PublishedDeck is the public catalog snapshot of exactly one Deck. The row
// is created on first publish and reused for every republish; it keeps its
// own full card copy so the snapshot survives later edits or deletion of the
// original.
type PublishedDeck struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	OriginalID string `gorm:"type:uuid;not null;uniqueIndex" json:"original_id"`

	// Denormalized so the catalog can show the author even if the original
	// deck is later removed.
	UserID uint `gorm:"not null;index" json:"-"`

	Name       string `gorm:"not null" json:"name"`
	Emoji      string `json:"emoji,omitempty"`
	Color      string `json:"color,omitempty"`
	Category   string `gorm:"index" json:"category,omitempty"`
	Subtopic   string `json:"subtopic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`

	// Informational, monotonic. Bumped on every accepted publish.
	Version int `gorm:"not null;default:0" json:"version"`

	// The source deck's content_updated_at as of the last successful capture.
	// Freshness comparisons read this, never wall-clock now.
	SourceContentUpdatedAt *time.Time `json:"source_content_updated_at,omitempty"`

	IsPublished bool       `gorm:"not null;default:false;index" json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	DownloadCount int `gorm:"not null;default:0" json:"download_count"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	Cards []PublishedCard `gorm:"foreignKey:PublishedDeckID;constraint:OnDelete:CASCADE;" json:"cards,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *PublishedDeck) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PublishedCard is a structural copy of a Card at capture time. Answer sets
// are stored as split columns and the audio reference is named audio_url;
// both diverge from the Card schema on purpose, the transcoder maps between
// the two.
type PublishedCard struct {
	ID              string `gorm:"type:uuid;primaryKey" json:"id"`
	PublishedDeckID string `gorm:"type:uuid;not null;index:idx_published_cards_deck_position,priority:1" json:"-"`

	Type     string `gorm:"not null" json:"type"`
	Position int    `gorm:"not null;default:0;index:idx_published_cards_deck_position,priority:2" json:"position"`

	Front string `gorm:"type:text;not null" json:"front"`
	Back  string `gorm:"type:text" json:"back,omitempty"`

	CorrectAnswers   datatypes.JSON `json:"correct_answers,omitempty"`
	IncorrectAnswers datatypes.JSON `json:"incorrect_answers,omitempty"`
	AcceptedAnswers  datatypes.JSON `json:"accepted_answers,omitempty"`

	ImagePath *string `json:"image_path,omitempty"`
	AudioURL  *string `gorm:"column:audio_url" json:"audio_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *PublishedCard) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
