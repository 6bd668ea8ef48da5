package threads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalith-99/skillswap/internal/models"
)

func TestKey_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Alice", "Bob"},
		{"You", "Maya Lopez"},
		{"same", "same"},
		{"", "x"},
		{"élodie", "Zed"},
	}
	for _, p := range pairs {
		assert.Equal(t, Key(p[0], p[1]), Key(p[1], p[0]))
	}
	assert.Equal(t, "Alice ⇄ Bob", Key("Bob", "Alice"))
}

func msg(id, from, to string, at time.Time) models.Message {
	return models.Message{
		ID:        id,
		From:      from,
		To:        to,
		CreatedAt: at,
		Summary:   Key(from, to),
	}
}

func TestBuild_GroupsAndOrders(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	// Inbox is newest first, as the session stores it.
	log := []models.Message{
		msg("5", "Devon", "You", t0.Add(5*time.Minute)),
		msg("4", "You", "Asha", t0.Add(4*time.Minute)),
		msg("3", "You", "Devon", t0.Add(3*time.Minute)),
		msg("2", "Maya", "You", t0.Add(2*time.Minute)),
		msg("1", "You", "Maya", t0.Add(1*time.Minute)),
	}

	got := Build(log)
	require.Len(t, got, 3)

	assert.Equal(t, Key("You", "Devon"), got[0].Key)
	assert.Equal(t, Key("You", "Asha"), got[1].Key)
	assert.Equal(t, Key("You", "Maya"), got[2].Key)

	var devon []string
	for _, m := range got[0].Messages {
		devon = append(devon, m.ID)
	}
	assert.Equal(t, []string{"3", "5"}, devon)
	assert.Equal(t, "5", got[0].Last().ID)
}

func TestBuild_UsesStoredSummary(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	old := msg("1", "Old Name", "Maya", t0)
	renamed := msg("2", "New Name", "Maya", t0.Add(time.Minute))

	got := Build([]models.Message{renamed, old})
	assert.Len(t, got, 2)
}

func TestBuild_Empty(t *testing.T) {
	got := Build(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
