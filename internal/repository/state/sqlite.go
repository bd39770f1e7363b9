package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver.

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
)

const (
	// armingStatusKey is the settings row holding the arming status.
	armingStatusKey = "arming_status"
	// alarmStatusKey is the settings row holding the alarm status.
	alarmStatusKey = "alarm_status"

	schema = `
CREATE TABLE IF NOT EXISTS settings (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sensors (
  name   TEXT NOT NULL,
  type   TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (name, type)
);`
)

// SQLiteRepository persists the state in a SQLite database.
type SQLiteRepository struct {
	// db is the database handle.
	db *sql.DB
}

// OpenSQLiteRepository opens (and creates if needed) the database at path.
func OpenSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	path = filepath.Clean(path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// ArmingStatus returns the stored arming status or Disarmed when unset.
func (r *SQLiteRepository) ArmingStatus(ctx context.Context) (domain.ArmingStatus, error) {
	value, err := r.setting(ctx, armingStatusKey)
	if err != nil {
		return "", err
	}

	status := domain.ArmingStatus(value)
	if !status.IsValid() {
		return domain.Disarmed, nil
	}

	return status, nil
}

// SetArmingStatus stores the arming status.
func (r *SQLiteRepository) SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error {
	return r.setSetting(ctx, armingStatusKey, string(status))
}

// AlarmStatus returns the stored alarm status or NoAlarm when unset.
func (r *SQLiteRepository) AlarmStatus(ctx context.Context) (domain.AlarmStatus, error) {
	value, err := r.setting(ctx, alarmStatusKey)
	if err != nil {
		return "", err
	}

	status := domain.AlarmStatus(value)
	if !status.IsValid() {
		return domain.NoAlarm, nil
	}

	return status, nil
}

// SetAlarmStatus stores the alarm status.
func (r *SQLiteRepository) SetAlarmStatus(ctx context.Context, status domain.AlarmStatus) error {
	return r.setSetting(ctx, alarmStatusKey, string(status))
}

// Sensors returns the registered sensors ordered by name and type.
func (r *SQLiteRepository) Sensors(ctx context.Context) ([]domain.Sensor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, type, active FROM sensors ORDER BY name, type`)
	if err != nil {
		return nil, fmt.Errorf("select sensors: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var result []domain.Sensor

	for rows.Next() {
		var sensor domain.Sensor
		if err = rows.Scan(&sensor.Name, &sensor.Type, &sensor.Active); err != nil {
			return nil, fmt.Errorf("scan sensor: %w", err)
		}

		result = append(result, sensor)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensors: %w", err)
	}

	return result, nil
}

// Sensor returns the sensor with the given key.
func (r *SQLiteRepository) Sensor(ctx context.Context, key domain.SensorKey) (domain.Sensor, error) {
	sensor := domain.Sensor{
		Name: key.Name,
		Type: key.Type,
	}

	err := r.db.QueryRowContext(ctx,
		`SELECT active FROM sensors WHERE name = ? AND type = ?`,
		key.Name, string(key.Type),
	).Scan(&sensor.Active)

	switch {
	case err == nil:
		return sensor, nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.Sensor{}, fmt.Errorf("%w: %s", ErrSensorNotFound, key)
	default:
		return domain.Sensor{}, fmt.Errorf("select sensor: %w", err)
	}
}

// AddSensor registers the sensor unless its key is already known.
func (r *SQLiteRepository) AddSensor(ctx context.Context, sensor domain.Sensor) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sensors (name, type, active) VALUES (?, ?, ?) ON CONFLICT (name, type) DO NOTHING`,
		sensor.Name, string(sensor.Type), sensor.Active,
	)
	if err != nil {
		return fmt.Errorf("insert sensor: %w", err)
	}

	return nil
}

// RemoveSensor unregisters the sensor.
func (r *SQLiteRepository) RemoveSensor(ctx context.Context, key domain.SensorKey) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sensors WHERE name = ? AND type = ?`,
		key.Name, string(key.Type),
	); err != nil {
		return fmt.Errorf("delete sensor: %w", err)
	}

	return nil
}

// SetSensorActive changes the activation of a known sensor.
func (r *SQLiteRepository) SetSensorActive(ctx context.Context, key domain.SensorKey, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sensors SET active = ? WHERE name = ? AND type = ?`,
		active, key.Name, string(key.Type),
	)
	if err != nil {
		return fmt.Errorf("update sensor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sensor: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSensorNotFound, key)
	}

	return nil
}

// setting reads a settings row; a missing row yields an empty string.
func (r *SQLiteRepository) setting(ctx context.Context, key string) (string, error) {
	var value string

	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	switch {
	case err == nil, errors.Is(err, sql.ErrNoRows):
		return value, nil
	default:
		return "", fmt.Errorf("select %s: %w", key, err)
	}
}

// setSetting upserts a settings row.
func (r *SQLiteRepository) setSetting(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}

	return nil
}
