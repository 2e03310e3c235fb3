package audit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Sink persists audit events.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// GormSink writes events to the audit_logs table.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Write(ctx context.Context, ev Event) error {
	entry := models.AuditLog{
		DoctorID:  ev.DoctorID,
		Action:    ev.Action,
		RequestID: ev.RequestID,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  encodeMetadata(ev.Metadata),
	}

	return s.db.WithContext(ctx).Create(&entry).Error
}

// ZapSink writes events to the application log. Used when there is no database.
type ZapSink struct {
	log *zap.Logger
}

func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

func (s *ZapSink) Write(_ context.Context, ev Event) error {
	fields := []zap.Field{
		zap.String("action", ev.Action),
		zap.String("entity", ev.Entity),
		zap.String("request_id", ev.RequestID),
	}
	if ev.DoctorID != nil {
		fields = append(fields, zap.Uint("doctor_id", *ev.DoctorID))
	}
	if ev.EntityID != nil {
		fields = append(fields, zap.Uint("entity_id", *ev.EntityID))
	}
	if meta := encodeMetadata(ev.Metadata); meta != "" {
		fields = append(fields, zap.String("metadata", meta))
	}

	s.log.Info("audit", fields...)
	return nil
}

func encodeMetadata(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
