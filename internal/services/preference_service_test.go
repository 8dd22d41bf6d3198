package services

import (
	"context"
	"testing"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceService_SetPreferences(t *testing.T) {
	repo := NewMockPreferencesRepository()
	svc := NewPreferenceService(repo, NewMockUserLookup(1), &MockTransactor{}, newTestLogger())
	ctx := context.Background()

	saved, err := svc.SetPreferences(ctx, &models.Preferences{
		UserID:              1,
		PreferredDistance:   12.5,
		PreferredExperience: 3,
		WantedCategories:    []models.JobCategory{models.JobCategoryPlumber, models.JobCategoryPlumber, models.JobCategoryPainter},
	})

	require.NoError(t, err)
	assert.Equal(t, []models.JobCategory{models.JobCategoryPlumber, models.JobCategoryPainter}, saved.WantedCategories)

	_, err = svc.SetPreferences(ctx, &models.Preferences{UserID: 1})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestPreferenceService_SetPreferences_UnknownUser(t *testing.T) {
	svc := NewPreferenceService(NewMockPreferencesRepository(), NewMockUserLookup(), &MockTransactor{}, newTestLogger())

	_, err := svc.SetPreferences(context.Background(), &models.Preferences{UserID: 4})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPreferenceService_SetPreferences_NegativeValues(t *testing.T) {
	svc := NewPreferenceService(NewMockPreferencesRepository(), NewMockUserLookup(1), &MockTransactor{}, newTestLogger())

	_, err := svc.SetPreferences(context.Background(), &models.Preferences{UserID: 1, PreferredDistance: -1})

	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestPreferenceService_UpdatePreferences_ReplacesCategories(t *testing.T) {
	repo := NewMockPreferencesRepository()
	tx := &MockTransactor{}
	svc := NewPreferenceService(repo, NewMockUserLookup(1), tx, newTestLogger())
	ctx := context.Background()

	_, err := svc.SetPreferences(ctx, &models.Preferences{
		UserID:           1,
		WantedCategories: []models.JobCategory{models.JobCategoryCleaner, models.JobCategoryGardener},
	})
	require.NoError(t, err)

	updated, err := svc.UpdatePreferences(ctx, &models.Preferences{
		UserID:            1,
		PreferredDistance: 40,
		WantedCategories:  []models.JobCategory{models.JobCategoryElectrician},
	})

	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.PreferredDistance)
	assert.Equal(t, []models.JobCategory{models.JobCategoryElectrician}, updated.WantedCategories)
	assert.Equal(t, 2, tx.Commits)
}

func TestPreferenceService_UpdateAndGet_NotSet(t *testing.T) {
	svc := NewPreferenceService(NewMockPreferencesRepository(), NewMockUserLookup(1), &MockTransactor{}, newTestLogger())

	_, err := svc.UpdatePreferences(context.Background(), &models.Preferences{UserID: 1})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.GetPreferences(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
