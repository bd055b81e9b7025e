package models_test

import (
	"testing"

	"github.com/looooooty/basesweb/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeBaseState(t *testing.T) {
	assert.Equal(t, models.BaseOpen, models.NormalizeBaseState("open"))
	assert.Equal(t, models.BaseOpenLess, models.NormalizeBaseState("open_less"))
	assert.Equal(t, models.BaseClosed, models.NormalizeBaseState("closed"))

	// Anything unrecognized coerces to open.
	assert.Equal(t, models.BaseOpen, models.NormalizeBaseState(""))
	assert.Equal(t, models.BaseOpen, models.NormalizeBaseState("OPEN"))
	assert.Equal(t, models.BaseOpen, models.NormalizeBaseState("locked"))
}

func TestNormalizeBase(t *testing.T) {
	got := models.NormalizeBase(models.BaseEntry{
		ID:    " Base One! ",
		Name:  "  Base One  ",
		State: "closed",
	}, 0)

	assert.Equal(t, "baseone", got.ID)
	assert.Equal(t, "Base One", got.Name)
	assert.Equal(t, models.BaseClosed, got.State)
}

func TestNormalizeBaseDefaults(t *testing.T) {
	got := models.NormalizeBase(models.BaseEntry{}, 3)

	assert.Equal(t, "base_4", got.ID)
	assert.Equal(t, "LooooootyBase 4", got.Name)
	assert.Equal(t, models.BaseOpen, got.State)
}

func TestMakeBaseID(t *testing.T) {
	assert.Equal(t, "north_base", models.MakeBaseID("North Base", nil))
	assert.Equal(t, "base", models.MakeBaseID("!!!", nil))

	existing := []models.BaseEntry{{ID: "north_base"}}
	assert.Equal(t, "north_base_2", models.MakeBaseID("North Base", existing))
}
