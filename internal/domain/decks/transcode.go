package decks

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// CardAnswers is the type-specific payload carried by Card.Answers.
// multiple-choice uses Correct/Incorrect, type-answer uses Accepted,
// classic-flip carries no answers at all.
type CardAnswers struct {
	Correct   []string `json:"correct,omitempty"`
	Incorrect []string `json:"incorrect,omitempty"`
	Accepted  []string `json:"accepted,omitempty"`
}

// ParseAnswers decodes a Card's answers blob. A nil blob is valid and means
// "no answers" (classic-flip).
func ParseAnswers(raw datatypes.JSON) (CardAnswers, error) {
	var out CardAnswers
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode card answers: %w", err)
	}
	return out, nil
}

func marshalList(list []string) (datatypes.JSON, error) {
	if list == nil {
		return nil, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func unmarshalList(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToPublishedCard maps a source/imported card onto the published schema:
// the answers blob is split into per-kind columns and the audio reference is
// renamed. Identity and position are assigned by the caller; everything else
// must survive a round trip unchanged.
func ToPublishedCard(c Card, publishedDeckID string, position int) (PublishedCard, error) {
	ans, err := ParseAnswers(c.Answers)
	if err != nil {
		return PublishedCard{}, err
	}

	out := PublishedCard{
		PublishedDeckID: publishedDeckID,
		Type:            c.Type,
		Position:        position,
		Front:           c.Front,
		Back:            c.Back,
		ImagePath:       c.ImagePath,
		AudioURL:        c.AudioPath,
	}

	switch c.Type {
	case CardTypeClassicFlip:
		// no answer arrays
	case CardTypeMultipleChoice:
		if out.CorrectAnswers, err = marshalList(ans.Correct); err != nil {
			return PublishedCard{}, err
		}
		if out.IncorrectAnswers, err = marshalList(ans.Incorrect); err != nil {
			return PublishedCard{}, err
		}
	case CardTypeTypeAnswer:
		if out.AcceptedAnswers, err = marshalList(ans.Accepted); err != nil {
			return PublishedCard{}, err
		}
	default:
		return PublishedCard{}, fmt.Errorf("unknown card type %q", c.Type)
	}

	return out, nil
}

// FromPublishedCard is the inverse mapping, used when importing a snapshot
// into a user's library. The returned card has no identity; gorm assigns a
// fresh uuid on insert.
func FromPublishedCard(pc PublishedCard, deckID string, position int) (Card, error) {
	out := Card{
		DeckID:    deckID,
		Type:      pc.Type,
		Position:  position,
		Front:     pc.Front,
		Back:      pc.Back,
		ImagePath: pc.ImagePath,
		AudioPath: pc.AudioURL,
	}

	var ans CardAnswers
	var err error
	switch pc.Type {
	case CardTypeClassicFlip:
		return out, nil
	case CardTypeMultipleChoice:
		if ans.Correct, err = unmarshalList(pc.CorrectAnswers); err != nil {
			return Card{}, err
		}
		if ans.Incorrect, err = unmarshalList(pc.IncorrectAnswers); err != nil {
			return Card{}, err
		}
	case CardTypeTypeAnswer:
		if ans.Accepted, err = unmarshalList(pc.AcceptedAnswers); err != nil {
			return Card{}, err
		}
	default:
		return Card{}, fmt.Errorf("unknown card type %q", pc.Type)
	}

	blob, err := json.Marshal(ans)
	if err != nil {
		return Card{}, err
	}
	out.Answers = datatypes.JSON(blob)
	return out, nil
}
