package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
)

func newLocationFixture(t *testing.T) (*LocationService, *fakeLocationRepo) {
	t.Helper()
	repo := newFakeLocationRepo()
	return NewLocationService(repo, &fakeTxManager{}, zap.NewNop()), repo
}

func TestLocationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the location with an unverified review row", func(t *testing.T) {
		svc, repo := newLocationFixture(t)

		location, err := svc.Create(ctx, CreateLocationInput{
			Name:      "Field hospital",
			Latitude:  31.5,
			Longitude: 34.45,
		})
		require.NoError(t, err)
		require.NotZero(t, location.ID)

		verification, ok := repo.verifications[location.ID]
		require.True(t, ok, "review row must exist for the new location")
		assert.Equal(t, models.LocationUnverified, verification.Status)
		assert.Nil(t, verification.VerifiedBy)
	})

	t.Run("out of range coordinates", func(t *testing.T) {
		svc, repo := newLocationFixture(t)

		cases := []struct{ lat, lng float64 }{
			{91, 0},
			{-91, 0},
			{0, 181},
			{0, -181},
		}
		for _, c := range cases {
			_, err := svc.Create(ctx, CreateLocationInput{Name: "x", Latitude: c.lat, Longitude: c.lng})
			assert.ErrorIs(t, err, ErrInvalidCoordinates)
		}
		assert.Empty(t, repo.locations)
	})

	t.Run("boundary coordinates are accepted", func(t *testing.T) {
		svc, _ := newLocationFixture(t)

		_, err := svc.Create(ctx, CreateLocationInput{Name: "north pole", Latitude: 90, Longitude: 180})
		assert.NoError(t, err)
	})
}

func TestLocationService_Verify(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*LocationService, *models.Location) {
		t.Helper()
		svc, _ := newLocationFixture(t)
		location, err := svc.Create(ctx, CreateLocationInput{Name: "shelter", Latitude: 31.5, Longitude: 34.45})
		require.NoError(t, err)
		return svc, location
	}

	t.Run("admin marks a location verified", func(t *testing.T) {
		svc, location := setup(t)

		verification, err := svc.Verify(ctx, location.ID, models.LocationVerified, 9)
		require.NoError(t, err)
		assert.Equal(t, models.LocationVerified, verification.Status)
		require.NotNil(t, verification.VerifiedBy)
		assert.Equal(t, int64(9), *verification.VerifiedBy)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc, location := setup(t)

		_, err := svc.Verify(ctx, location.ID, "pending-ish", 9)
		assert.True(t, IsValidationError(err))
	})

	t.Run("unknown location", func(t *testing.T) {
		svc, _ := newLocationFixture(t)

		_, err := svc.Verify(ctx, 999, models.LocationVerified, 9)
		assert.ErrorIs(t, err, ErrLocationNotFound)
	})
}

func TestEmergencyService_Create(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEmergencyRepo()
	svc := NewEmergencyService(repo, zap.NewNop())

	t.Run("new reports open", func(t *testing.T) {
		emergency, err := svc.Create(ctx, CreateEmergencyInput{Title: "bridge collapse"})
		require.NoError(t, err)
		assert.Equal(t, "open", emergency.Status)
	})

	t.Run("coordinates validated only when both present", func(t *testing.T) {
		lat, lng := 91.0, 0.0
		_, err := svc.Create(ctx, CreateEmergencyInput{Title: "x", Latitude: &lat, Longitude: &lng})
		assert.ErrorIs(t, err, ErrInvalidCoordinates)

		_, err = svc.Create(ctx, CreateEmergencyInput{Title: "x", Latitude: &lat})
		assert.NoError(t, err)
	})

	t.Run("empty patch on update", func(t *testing.T) {
		_, err := svc.Update(ctx, 1, map[string]interface{}{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown report", func(t *testing.T) {
		_, err := svc.Get(ctx, 999)
		assert.ErrorIs(t, err, ErrEmergencyNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, 999), ErrEmergencyNotFound)
	})
}
