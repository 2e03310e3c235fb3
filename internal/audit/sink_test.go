package audit

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormSink_Write(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	doctorID := uint(4)
	err = NewGormSink(db).Write(context.Background(), Event{
		DoctorID: &doctorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		Metadata: map[string]string{"date": "2024-03-04"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestZapSink_Write(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	doctorID := uint(2)
	err := NewZapSink(zap.New(core)).Write(context.Background(), Event{
		DoctorID:  &doctorID,
		Action:    "working_hours_upserted",
		Entity:    "working_hours",
		RequestID: "req-1",
	})
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "working_hours_upserted", fields["action"])
	assert.Equal(t, uint64(2), fields["doctor_id"])
}
