package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefrre/ferweb/internal/models"
)

func TestSubmissionDocRoundTrip(t *testing.T) {
	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	doc, err := toDoc(&models.Submission{
		ID:          "ignored",
		CreatedAt:   created,
		Name:        "Ana",
		ProjectType: "cms",
		Features:    []string{"Blog/Noticias"},
		Status:      models.StatusReviewed,
	}, "id")
	require.NoError(t, err)
	assert.NotContains(t, doc, "id")
	assert.Equal(t, "cms", doc["project_type"])

	doc["_id"] = float64(17)
	sub, err := fromDoc[models.Submission](doc, "id")
	require.NoError(t, err)
	assert.Equal(t, "17", sub.ID)
	assert.True(t, created.Equal(sub.CreatedAt))
	assert.Equal(t, []string{"Blog/Noticias"}, sub.Features)
	assert.Equal(t, models.StatusReviewed, sub.Status)
}

func TestDocToUserKeepsUnderscoreID(t *testing.T) {
	u, err := fromDoc[models.User](map[string]any{"_id": float64(3), "email": "a@b.mx", "passwordHash": "h"}, "_id")
	require.NoError(t, err)
	assert.Equal(t, "3", u.ID)
	assert.Equal(t, "h", u.PasswordHash)

	doc, err := toDoc(u, "_id")
	require.NoError(t, err)
	assert.NotContains(t, doc, "_id")
	assert.Equal(t, "a@b.mx", doc["email"])
}

func TestIDHelpers(t *testing.T) {
	assert.Equal(t, "12", extractID(map[string]any{"id": float64(12)}))
	assert.Equal(t, "abc", extractID(map[string]any{"id": "abc"}))
	assert.Equal(t, "", extractID(map[string]any{"status": "buffered"}))
	assert.Equal(t, float64(5), toNumericID("5"))
	assert.Equal(t, "x5", toNumericID("x5"))
}
