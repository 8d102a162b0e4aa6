package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/wasteops-admin/internal/model"
)

func TestParseFields_Report(t *testing.T) {
	fields, err := ParseFields(model.EntityReport, map[string]interface{}{
		"status":           "Resolved",
		"resolution_notes": "",
		"description":      "  ",
		"priority":         nil,
		"unknown":          "ignored",
		"bin_id":           "BIN-4",
	})
	require.NoError(t, err)

	assert.Equal(t, FieldSet{
		FieldStatus:          model.ReportStatusResolved,
		FieldResolutionNotes: "",
		FieldBinID:           "BIN-4",
	}, fields)
}

func TestParseFields_Schedule(t *testing.T) {
	collectorID := uuid.New()
	fields, err := ParseFields(model.EntitySchedule, map[string]interface{}{
		"collector_id":   collectorID.String(),
		"scheduled_date": "2026-05-04",
		"scheduled_time": "7:30",
		"status":         "in_progress",
	})
	require.NoError(t, err)

	assert.Equal(t, collectorID, fields[FieldCollectorID])
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), fields[FieldScheduledDate])
	assert.Equal(t, "07:30:00", fields[FieldScheduledTime])
	assert.Equal(t, model.ScheduleStatusInProgress, fields[FieldStatus])
}

func TestParseFields_Bin(t *testing.T) {
	fields, err := ParseFields(model.EntityBin, map[string]interface{}{
		"fill_level": float64(95),
		"capacity":   "240",
		"latitude":   43.25,
		"type":       "organic",
	})
	require.NoError(t, err)

	assert.Equal(t, 95, fields[FieldFillLevel])
	assert.Equal(t, 240, fields[FieldCapacity])
	assert.Equal(t, 43.25, fields[FieldLatitude])
	assert.Equal(t, model.BinTypeOrganic, fields[FieldType])
}

func TestParseFields_Rejects(t *testing.T) {
	tests := []struct {
		name string
		kind model.EntityKind
		raw  map[string]interface{}
	}{
		{"bad report status", model.EntityReport, map[string]interface{}{"status": "done"}},
		{"report status from schedule set", model.EntityReport, map[string]interface{}{"status": "completed"}},
		{"non string description", model.EntityReport, map[string]interface{}{"description": 12.0}},
		{"bad collector", model.EntitySchedule, map[string]interface{}{"collector_id": "nope"}},
		{"bad date", model.EntitySchedule, map[string]interface{}{"scheduled_date": "04/05/2026"}},
		{"bad clock", model.EntitySchedule, map[string]interface{}{"scheduled_time": "25:00"}},
		{"fill over 100", model.EntityBin, map[string]interface{}{"fill_level": 101.0}},
		{"fractional fill", model.EntityBin, map[string]interface{}{"fill_level": 50.5}},
		{"zero capacity", model.EntityBin, map[string]interface{}{"capacity": 0.0}},
		{"unknown kind", "truck", map[string]interface{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFields(tt.kind, tt.raw)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestFieldSet_FieldsSorted(t *testing.T) {
	fs := FieldSet{FieldStatus: 1, FieldBinID: 2, FieldDescription: 3}
	assert.Equal(t, []Field{FieldBinID, FieldDescription, FieldStatus}, fs.Fields())
	assert.Equal(t, map[string]interface{}{"status": 1, "bin_id": 2, "description": 3}, fs.Columns())
}
