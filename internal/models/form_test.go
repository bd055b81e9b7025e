package models_test

import (
	"encoding/json"
	"testing"

	"github.com/looooooty/basesweb/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormUnmarshalLegacyShapes(t *testing.T) {
	// questions as a bare string
	var f models.ApplicationForm
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","questions":"Only one?"}`), &f))
	assert.Equal(t, []string{"Only one?"}, f.Questions)

	// singular question field
	f = models.ApplicationForm{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","question":"Singular?"}`), &f))
	assert.Equal(t, []string{"Singular?"}, f.Questions)

	// questions wins over question when both are present
	f = models.ApplicationForm{}
	require.NoError(t, json.Unmarshal([]byte(`{"questions":["A?","B?"],"question":"C?"}`), &f))
	assert.Equal(t, []string{"A?", "B?"}, f.Questions)
}

func TestFormUnmarshalActiveDefaultsTrue(t *testing.T) {
	var f models.ApplicationForm
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a"}`), &f))
	assert.True(t, f.Active)

	f = models.ApplicationForm{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","active":false}`), &f))
	assert.False(t, f.Active)
}

func TestNormalizeFormDefaults(t *testing.T) {
	got := models.NormalizeForm(models.ApplicationForm{Active: true}, 2, "12345678901234567")

	assert.Equal(t, "form-3", got.ID)
	assert.Equal(t, "Application 3", got.Name)
	assert.Equal(t, "12345678901234567", got.GuildID)
	assert.True(t, got.Active)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestNormalizeFormKeepsExistingValues(t *testing.T) {
	in := models.ApplicationForm{
		ID:        "vip",
		Name:      "  VIP  ",
		GuildID:   "11111111111111111",
		RoleID:    " 22222222222222222 ",
		Questions: []string{" A? ", "", "B?"},
		Active:    false,
		CreatedAt: "2025-01-01T00:00:00Z",
	}
	got := models.NormalizeForm(in, 0, "99999999999999999")

	assert.Equal(t, "vip", got.ID)
	assert.Equal(t, "VIP", got.Name)
	assert.Equal(t, "11111111111111111", got.GuildID)
	assert.Equal(t, "22222222222222222", got.RoleID)
	assert.Equal(t, []string{"A?", "B?"}, got.Questions)
	assert.False(t, got.Active)
	assert.Equal(t, "2025-01-01T00:00:00Z", got.CreatedAt)
}

func TestMakeFormID(t *testing.T) {
	assert.Equal(t, "base-member", models.MakeFormID("Base Member!", nil))
	assert.Equal(t, "form", models.MakeFormID("???", nil))

	existing := []models.ApplicationForm{{ID: "vip"}, {ID: "vip-2"}}
	assert.Equal(t, "vip-3", models.MakeFormID("VIP", existing))
}
