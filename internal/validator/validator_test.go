package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Title string `json:"title" validate:"required,not_blank"`
	Kind  string `json:"kind" validate:"omitempty,question_type"`
	Limit int    `json:"limit" validate:"gte=0,lte=20"`
}

func TestValidateStruct(t *testing.T) {
	v := New()

	require.NoError(t, v.ValidateStruct(envelope{Title: "ok", Kind: "ESSAY"}))

	err := v.ValidateStruct(envelope{Title: "   ", Kind: "POLL", Limit: 21})
	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve, 3)

	fields := map[string]string{}
	for _, e := range ve {
		fields[e.Field] = e.Rule
	}
	assert.Equal(t, "not_blank", fields["title"])
	assert.Equal(t, "question_type", fields["kind"])
	assert.Equal(t, "lte", fields["limit"])
}

func TestQuestionAccessor(t *testing.T) {
	assert.NotNil(t, New().Question())
}
