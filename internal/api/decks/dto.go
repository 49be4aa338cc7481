package decks

// ---------- requests

type CardAnswersInput struct {
	Correct   []string `json:"correct"`
	Incorrect []string `json:"incorrect"`
	Accepted  []string `json:"accepted"`
}

type CardInput struct {
	Type     string            `json:"type" binding:"required"`
	Position *int              `json:"position"`
	Front    string            `json:"front" binding:"required"`
	Back     string            `json:"back"`
	Answers  *CardAnswersInput `json:"answers"`

	ImagePath *string `json:"image_path"`
	AudioPath *string `json:"audio_path"`
}

type CreateDeckRequest struct {
	Name       string `json:"name" binding:"required"`
	Emoji      string `json:"emoji"`
	Color      string `json:"color"`
	Category   string `json:"category"`
	Subtopic   string `json:"subtopic"`
	Difficulty string `json:"difficulty"`

	Cards []CardInput `json:"cards"`
}

type UpdateDeckRequest struct {
	Name       *string `json:"name"`
	Emoji      *string `json:"emoji"`
	Color      *string `json:"color"`
	Category   *string `json:"category"`
	Subtopic   *string `json:"subtopic"`
	Difficulty *string `json:"difficulty"`
}

type UpdateCardRequest struct {
	Position *int              `json:"position"`
	Front    *string           `json:"front"`
	Back     *string           `json:"back"`
	Answers  *CardAnswersInput `json:"answers"`

	ImagePath *string `json:"image_path"`
	AudioPath *string `json:"audio_path"`
}

type ReorderCardsRequest struct {
	CardIDs []string `json:"card_ids" binding:"required"` // ordered list
}
