package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCategoryFromID(t *testing.T) {
	tests := []struct {
		name     string
		id       int
		expected JobCategory
		wantErr  bool
	}{
		{name: "all", id: 0, expected: JobCategoryAll},
		{name: "plumber", id: 1, expected: JobCategoryPlumber},
		{name: "delivery driver", id: 13, expected: JobCategoryDeliveryDriver},
		{name: "negative", id: -1, wantErr: true},
		{name: "out of range", id: 14, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JobCategoryFromID(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.id, got.ID())
		})
	}
}

func TestJobCategory_JSON(t *testing.T) {
	data, err := json.Marshal([]JobCategory{JobCategoryPlumber, JobCategoryMakeupArtist})
	require.NoError(t, err)
	assert.JSONEq(t, `["PLUMBER","MAKEUP_ARTIST"]`, string(data))

	var parsed []JobCategory
	require.NoError(t, json.Unmarshal([]byte(`["electrician","GARDENER"]`), &parsed))
	assert.Equal(t, []JobCategory{JobCategoryElectrician, JobCategoryGardener}, parsed)

	err = json.Unmarshal([]byte(`["ASTRONAUT"]`), &parsed)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPreferences_WantedCategoryIDs_CollapsesDuplicates(t *testing.T) {
	p := &Preferences{
		UserID:           7,
		WantedCategories: []JobCategory{JobCategoryPainter, JobCategoryCleaner, JobCategoryPainter},
	}

	ids := p.WantedCategoryIDs()

	assert.Equal(t, []WantedCategoryID{
		{PreferencesID: 7, CategoryID: JobCategoryPainter},
		{PreferencesID: 7, CategoryID: JobCategoryCleaner},
	}, ids)
}

func TestStatus_Codes(t *testing.T) {
	s, err := StatusFromCode(2)
	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, s)

	_, err = StatusFromCode(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	data, err := json.Marshal(StatusBanned)
	require.NoError(t, err)
	assert.Equal(t, `"BANNED"`, string(data))

	var parsed Status
	require.NoError(t, json.Unmarshal([]byte(`"active"`), &parsed))
	assert.Equal(t, StatusActive, parsed)
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(9, 30), tod)
	assert.Equal(t, "09:30", tod.String())

	withSeconds, err := ParseTimeOfDay("17:45:10")
	require.NoError(t, err)
	assert.Equal(t, "17:45:10", withSeconds.String())
	assert.True(t, tod.Before(withSeconds))

	_, err = ParseTimeOfDay("25:99")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	var fromJSON TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"08:00"`), &fromJSON))
	assert.Equal(t, NewTimeOfDay(8, 0), fromJSON)
}

func TestBlockID_IsDirectional(t *testing.T) {
	ab := BlockID{BlockingUserID: 1, BlockedUserID: 2}
	ba := BlockID{BlockingUserID: 2, BlockedUserID: 1}

	set := map[BlockID]bool{ab: true}

	assert.True(t, set[ab])
	assert.False(t, set[ba])
}

func TestValidPair(t *testing.T) {
	assert.True(t, ValidPair(1, 2))
	assert.False(t, ValidPair(1, 1))
	assert.False(t, ValidPair(0, 2))
	assert.False(t, ValidPair(3, 0))
}
