package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.May, Day: 1}, d)
	assert.Equal(t, "2024-05-01", d.String())

	for _, bad := range []string{"", "2024-5-1", "01/05/2024", "2024-02-30", "2024-05-01T10:00"} {
		_, err := ParseDate(bad)
		assert.Errorf(t, err, "ParseDate(%q)", bad)
	}
}

func TestDate_Equality(t *testing.T) {
	a, _ := ParseDate("2024-01-02")
	b := DateOf(time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC))
	assert.True(t, a == b)
	assert.Equal(t, a, NewDate(2023, 12, 33))
	assert.False(t, a.IsZero())
	assert.True(t, Date{}.IsZero())
}

func TestReservation_JSON(t *testing.T) {
	r := Reservation{CourtID: 3, Date: NewDate(2024, time.May, 1), Duration: 30}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"court_id":3,"date":"2024-05-01","duration":30}`, string(data))

	var back Reservation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"May 1"}`), &back))
}
