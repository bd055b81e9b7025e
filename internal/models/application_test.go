package models_test

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/looooooty/basesweb/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationUnmarshalLegacySingularFields(t *testing.T) {
	var app models.Application
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "APP-1",
		"customQuestion": "Why?",
		"customAnswer": "Because."
	}`), &app))

	assert.Equal(t, []string{"Why?"}, app.CustomQuestions)
	assert.Equal(t, []string{"Because."}, app.CustomAnswers)
}

func TestApplicationUnmarshalArrayFieldsWin(t *testing.T) {
	var app models.Application
	require.NoError(t, json.Unmarshal([]byte(`{
		"customQuestions": ["A?", "B?"],
		"customQuestion": "C?",
		"customAnswers": "single"
	}`), &app))

	assert.Equal(t, []string{"A?", "B?"}, app.CustomQuestions)
	assert.Equal(t, []string{"single"}, app.CustomAnswers)
}

func TestNewApplicationIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^APP-\d{13,}-[1-9]\d{2}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		id := models.NewApplicationID()
		assert.Regexp(t, pattern, id)
		seen[id] = struct{}{}
	}
	// Collisions within one run are possible but should be rare.
	assert.Greater(t, len(seen), 1)
}
