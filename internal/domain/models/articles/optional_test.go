package articles

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalFields_TriState(t *testing.T) {
	var body struct {
		Cover OptionalString `json:"coverImage"`
		Alt   OptionalString `json:"coverImageAlt"`
		Score OptionalInt    `json:"factCheckScore"`
		Other OptionalInt    `json:"other"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"coverImage": null, "coverImageAlt": "alt", "factCheckScore": 80}`), &body))

	assert.True(t, body.Cover.Present)
	assert.Nil(t, body.Cover.Value)

	require.NotNil(t, body.Alt.Value)
	assert.Equal(t, "alt", *body.Alt.Value)

	require.NotNil(t, body.Score.Value)
	assert.Equal(t, 80, *body.Score.Value)

	assert.False(t, body.Other.Present)
}

func TestOptionalInt_RejectsString(t *testing.T) {
	var o OptionalInt
	assert.Error(t, json.Unmarshal([]byte(`"eighty"`), &o))
}

func TestOptional_Apply(t *testing.T) {
	current := "old.png"
	next := "new.png"
	score := 40

	assert.Equal(t, &current, OptionalString{}.Apply(&current))
	assert.Nil(t, OptionalString{Present: true}.Apply(&current))
	assert.Equal(t, &next, OptionalString{Present: true, Value: &next}.Apply(&current))

	assert.Equal(t, &score, OptionalInt{}.Apply(&score))
	assert.Nil(t, OptionalInt{Present: true}.Apply(&score))
}
