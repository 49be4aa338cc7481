package decks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func strptr(s string) *string { return &s }

func TestTranscodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		card Card
	}{
		{
			name: "classic-flip",
			card: Card{
				Type:      CardTypeClassicFlip,
				Front:     "What is 2+2?",
				Back:      "4",
				ImagePath: strptr("img/plus.png"),
				AudioPath: strptr("audio/plus.mp3"),
			},
		},
		{
			name: "multiple-choice",
			card: Card{
				Type:    CardTypeMultipleChoice,
				Front:   "Which are prime?",
				Answers: datatypes.JSON(`{"correct":["2","3"],"incorrect":["4","6"]}`),
			},
		},
		{
			name: "type-answer",
			card: Card{
				Type:    CardTypeTypeAnswer,
				Front:   "Capital of France?",
				Answers: datatypes.JSON(`{"accepted":["Paris","paris"]}`),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pub, err := ToPublishedCard(tc.card, "pub-deck", 7)
			require.NoError(t, err)
			assert.Equal(t, 7, pub.Position)
			assert.Equal(t, tc.card.Type, pub.Type)

			back, err := FromPublishedCard(pub, "imported-deck", 3)
			require.NoError(t, err)

			assert.Equal(t, tc.card.Type, back.Type)
			assert.Equal(t, tc.card.Front, back.Front)
			assert.Equal(t, tc.card.Back, back.Back)
			assert.Equal(t, tc.card.ImagePath, back.ImagePath)
			assert.Equal(t, tc.card.AudioPath, back.AudioPath)
			assert.Equal(t, 3, back.Position)
			assert.Equal(t, "imported-deck", back.DeckID)

			want, err := ParseAnswers(tc.card.Answers)
			require.NoError(t, err)
			got, err := ParseAnswers(back.Answers)
			require.NoError(t, err)
			assert.Equal(t, want, got, "answer sets must survive the round trip")
		})
	}
}

func TestTranscodeSplitsAnswerColumns(t *testing.T) {
	card := Card{
		Type:    CardTypeMultipleChoice,
		Front:   "Which are prime?",
		Answers: datatypes.JSON(`{"correct":["2","3"],"incorrect":["4"]}`),
	}

	pub, err := ToPublishedCard(card, "pub-deck", 0)
	require.NoError(t, err)
	assert.JSONEq(t, `["2","3"]`, string(pub.CorrectAnswers))
	assert.JSONEq(t, `["4"]`, string(pub.IncorrectAnswers))
	assert.Empty(t, pub.AcceptedAnswers)
}

func TestTranscodeRenamesAudioField(t *testing.T) {
	card := Card{
		Type:      CardTypeClassicFlip,
		Front:     "hello",
		AudioPath: strptr("audio/hello.mp3"),
	}

	pub, err := ToPublishedCard(card, "pub-deck", 0)
	require.NoError(t, err)
	require.NotNil(t, pub.AudioURL)
	assert.Equal(t, "audio/hello.mp3", *pub.AudioURL)
}

func TestTranscodeRejectsUnknownType(t *testing.T) {
	_, err := ToPublishedCard(Card{Type: "bogus", Front: "x"}, "pub-deck", 0)
	assert.Error(t, err)

	_, err = FromPublishedCard(PublishedCard{Type: "bogus", Front: "x"}, "deck", 0)
	assert.Error(t, err)
}

func TestParseAnswersHandlesNilBlob(t *testing.T) {
	got, err := ParseAnswers(nil)
	require.NoError(t, err)
	assert.Equal(t, CardAnswers{}, got)
}
