package store_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowdo/internal/store"
)

func TestParseDate(t *testing.T) {
	d, err := store.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, store.Date{Year: 2024, Month: time.February, Day: 29}, d)
	assert.Equal(t, "2024-02-29", d.String())

	for _, bad := range []string{"", "2023-02-29", "2024-1-5", "tomorrow"} {
		_, err := store.ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := store.Date{Year: 2024, Month: time.December, Day: 30}

	assert.Equal(t, "2025-01-02", d.AddDays(3).String())
	assert.Equal(t, "2024-11-30", d.AddDays(-30).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))
	assert.Equal(t, 0, d.Compare(d))
	assert.Equal(t, 1, d.AddDays(1).Compare(d))
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.Local), d.Time())
}

func TestTodayUsesLocalDate(t *testing.T) {
	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.Local)
	assert.Equal(t, store.Date{Year: 2024, Month: time.January, Day: 1}, store.Today(now))
	assert.Equal(t, store.DateOf(now), store.Today(now))
}

func TestDateJSON(t *testing.T) {
	type holder struct {
		Due *store.Date `json:"due"`
	}

	data, err := json.Marshal(holder{Due: &store.Date{Year: 2024, Month: time.March, Day: 5}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-03-05"}`, string(data))

	data, err = json.Marshal(holder{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":null}`, string(data))

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"due":null}`), &h))
	assert.Nil(t, h.Due)

	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-03-05"}`), &h))
	assert.Equal(t, "2024-03-05", h.Due.String())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"05/03/2024"}`), &h))
	assert.Error(t, json.Unmarshal([]byte(`{"due":20240305}`), &h))
}
