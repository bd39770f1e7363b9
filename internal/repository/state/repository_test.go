package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
)

// repositoryFactories builds every backend over a fresh location.
func repositoryFactories(t *testing.T) map[string]func() Repository {
	t.Helper()

	return map[string]func() Repository{
		"memory": func() Repository {
			return NewMemoryRepository()
		},
		"file": func() Repository {
			repo, err := OpenFileRepository(filepath.Join(t.TempDir(), "state.yaml"))
			require.NoError(t, err)

			return repo
		},
		"sqlite": func() Repository {
			repo, err := OpenSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "state.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = repo.Close() })

			return repo
		},
	}
}

// TestRepository_Defaults verifies a fresh store is disarmed, calm and empty.
func TestRepository_Defaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for name, factory := range repositoryFactories(t) {
		repo := factory()

		arming, err := repo.ArmingStatus(ctx)
		require.NoError(t, err, name)
		require.Equal(t, domain.Disarmed, arming, name)

		alarm, err := repo.AlarmStatus(ctx)
		require.NoError(t, err, name)
		require.Equal(t, domain.NoAlarm, alarm, name)

		sensors, err := repo.Sensors(ctx)
		require.NoError(t, err, name)
		require.Empty(t, sensors, name)
	}
}

// TestRepository_Statuses verifies arming and alarm statuses are stored.
func TestRepository_Statuses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for name, factory := range repositoryFactories(t) {
		repo := factory()

		require.NoError(t, repo.SetArmingStatus(ctx, domain.ArmedAway), name)
		require.NoError(t, repo.SetAlarmStatus(ctx, domain.PendingAlarm), name)

		arming, err := repo.ArmingStatus(ctx)
		require.NoError(t, err, name)
		require.Equal(t, domain.ArmedAway, arming, name)

		alarm, err := repo.AlarmStatus(ctx)
		require.NoError(t, err, name)
		require.Equal(t, domain.PendingAlarm, alarm, name)
	}
}

// TestRepository_Sensors covers add, duplicate add, activation and removal.
func TestRepository_Sensors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for name, factory := range repositoryFactories(t) {
		repo := factory()

		window := domain.NewSensor("Kitchen", domain.Window)
		door := domain.NewSensor("Back", domain.Door)

		require.NoError(t, repo.AddSensor(ctx, window), name)
		require.NoError(t, repo.AddSensor(ctx, door), name)

		// Same identity, different activation: still a single sensor.
		duplicate := window
		duplicate.Active = true
		require.NoError(t, repo.AddSensor(ctx, duplicate), name)

		sensors, err := repo.Sensors(ctx)
		require.NoError(t, err, name)
		require.Equal(t, []domain.Sensor{door, window}, sensors, name)

		require.NoError(t, repo.SetSensorActive(ctx, window.Key(), true), name)

		got, err := repo.Sensor(ctx, window.Key())
		require.NoError(t, err, name)
		require.True(t, got.Active, name)

		require.NoError(t, repo.RemoveSensor(ctx, door.Key()), name)
		require.NoError(t, repo.RemoveSensor(ctx, door.Key()), name)

		_, err = repo.Sensor(ctx, door.Key())
		require.ErrorIs(t, err, ErrSensorNotFound, name)
		require.ErrorIs(t, repo.SetSensorActive(ctx, door.Key(), true), ErrSensorNotFound, name)

		sensors, err = repo.Sensors(ctx)
		require.NoError(t, err, name)
		require.Len(t, sensors, 1, name)
	}
}
