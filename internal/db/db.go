package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// NewDB connects to postgres, tunes the pool and migrates the schema.
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready",
		zap.Int("max_open_conns", cfg.DBMaxOpenConns),
		zap.Int("max_idle_conns", cfg.DBMaxIdleConns),
	)
	return db, nil
}

// Migrate creates the tables and the overlap exclusion constraint. Safe to
// run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enabling btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Doctor{},
		&models.WorkingHours{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}

	if err := db.Exec(overlapConstraint).Error; err != nil {
		return fmt.Errorf("adding overlap constraint: %w", err)
	}
	return nil
}

// overlapConstraint rejects two appointments of one doctor whose
// [start, end) ranges intersect on the same date.
const overlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
	) THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (
				doctor_id WITH =,
				tsrange(appointment_date + start_time, appointment_date + end_time, '[)') WITH &&
			);
	END IF;
END
$$;`
