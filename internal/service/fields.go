package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/wasteops-admin/internal/model"
)

// Field names double as column names in the store.
type Field string

const (
	FieldBinID           Field = "bin_id"
	FieldIssueType       Field = "issue_type"
	FieldDescription     Field = "description"
	FieldPriority        Field = "priority"
	FieldStatus          Field = "status"
	FieldResolutionNotes Field = "resolution_notes"

	FieldCollectorID   Field = "collector_id"
	FieldScheduledDate Field = "scheduled_date"
	FieldScheduledTime Field = "scheduled_time"
	FieldRoute         Field = "route"

	FieldLocation  Field = "location"
	FieldLatitude  Field = "latitude"
	FieldLongitude Field = "longitude"
	FieldCapacity  Field = "capacity"
	FieldFillLevel Field = "fill_level"
	FieldType      Field = "type"
)

var (
	reportFields   = []Field{FieldBinID, FieldIssueType, FieldDescription, FieldPriority, FieldStatus, FieldResolutionNotes}
	scheduleFields = []Field{FieldBinID, FieldCollectorID, FieldScheduledDate, FieldScheduledTime, FieldRoute, FieldStatus}
	binFields      = []Field{FieldLocation, FieldLatitude, FieldLongitude, FieldCapacity, FieldFillLevel, FieldStatus, FieldType}
)

// FieldSet maps field names to parsed, typed values. Only fields that were
// present and non-null in a request appear in it.
type FieldSet map[Field]interface{}

func (fs FieldSet) Has(field Field) bool {
	_, ok := fs[field]
	return ok
}

// Fields returns the set's keys in a stable order.
func (fs FieldSet) Fields() []Field {
	fields := make([]Field, 0, len(fs))
	for field := range fs {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

func (fs FieldSet) Columns() map[string]interface{} {
	columns := make(map[string]interface{}, len(fs))
	for field, value := range fs {
		columns[string(field)] = value
	}
	return columns
}

func fieldsFor(kind model.EntityKind) []Field {
	switch kind {
	case model.EntityReport:
		return reportFields
	case model.EntitySchedule:
		return scheduleFields
	case model.EntityBin:
		return binFields
	}
	return nil
}

// ParseFields converts a raw request mapping into a typed FieldSet for the given
// entity kind. Unknown keys and null values are ignored; malformed values fail
// with ErrInvalidInput.
func ParseFields(kind model.EntityKind, raw map[string]interface{}) (FieldSet, error) {
	fs, invalid, err := parseRequested(kind, raw)
	if err != nil {
		return nil, err
	}
	for _, field := range fieldsFor(kind) {
		if fieldErr, ok := invalid[field]; ok {
			return nil, fieldErr
		}
	}
	return fs, nil
}

// parseRequested splits raw into the well-formed fields and the errors of the
// malformed ones.
func parseRequested(kind model.EntityKind, raw map[string]interface{}) (FieldSet, map[Field]error, error) {
	allowed := fieldsFor(kind)
	if allowed == nil {
		return nil, nil, fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, kind)
	}

	fs := make(FieldSet, len(raw))
	invalid := make(map[Field]error)
	for _, field := range allowed {
		value, ok := raw[string(field)]
		if !ok || value == nil {
			continue
		}
		parsed, keep, err := parseFieldValue(kind, field, value)
		if err != nil {
			invalid[field] = err
			continue
		}
		if keep {
			fs[field] = parsed
		}
	}
	return fs, invalid, nil
}

func parseFieldValue(kind model.EntityKind, field Field, value interface{}) (interface{}, bool, error) {
	switch field {
	case FieldBinID:
		id, err := asIdentifier(field, value)
		return id, id != "", err
	case FieldDescription, FieldLocation, FieldRoute:
		text, err := asString(field, value)
		return text, text != "", err
	case FieldResolutionNotes:
		// Empty notes are a legitimate value and clear previous notes.
		text, err := asString(field, value)
		return text, true, err
	case FieldIssueType:
		return parseEnum(field, value, func(s string) (interface{}, bool) {
			v := model.IssueType(s)
			return v, v.Valid()
		})
	case FieldPriority:
		return parseEnum(field, value, func(s string) (interface{}, bool) {
			v := model.Priority(s)
			return v, v.Valid()
		})
	case FieldType:
		return parseEnum(field, value, func(s string) (interface{}, bool) {
			v := model.BinType(s)
			return v, v.Valid()
		})
	case FieldStatus:
		return parseStatus(kind, value)
	case FieldCollectorID:
		text, err := asString(field, value)
		if err != nil || text == "" {
			return nil, false, err
		}
		id, err := uuid.Parse(text)
		if err != nil {
			return nil, false, fmt.Errorf("%w: invalid collector_id", ErrInvalidInput)
		}
		return id, true, nil
	case FieldScheduledDate:
		text, err := asString(field, value)
		if err != nil || text == "" {
			return nil, false, err
		}
		date, err := ParseDate(text)
		if err != nil {
			return nil, false, fmt.Errorf("%w: invalid scheduled_date", ErrInvalidInput)
		}
		return date, true, nil
	case FieldScheduledTime:
		text, err := asString(field, value)
		if err != nil || text == "" {
			return nil, false, err
		}
		clock, err := NormalizeClock(text)
		if err != nil {
			return nil, false, err
		}
		return clock, true, nil
	case FieldFillLevel:
		level, err := asInt(field, value)
		if err != nil {
			return nil, false, err
		}
		if level < 0 || level > 100 {
			return nil, false, fmt.Errorf("%w: fill_level must be between 0 and 100", ErrInvalidInput)
		}
		return level, true, nil
	case FieldCapacity:
		capacity, err := asInt(field, value)
		if err != nil {
			return nil, false, err
		}
		if capacity <= 0 {
			return nil, false, fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
		}
		return capacity, true, nil
	case FieldLatitude, FieldLongitude:
		coord, err := asFloat(field, value)
		return coord, err == nil, err
	}
	return nil, false, nil
}

func parseStatus(kind model.EntityKind, value interface{}) (interface{}, bool, error) {
	return parseEnum(FieldStatus, value, func(s string) (interface{}, bool) {
		switch kind {
		case model.EntityReport:
			v := model.ReportStatus(s)
			return v, v.Valid()
		case model.EntitySchedule:
			v := model.ScheduleStatus(s)
			return v, v.Valid()
		case model.EntityBin:
			v := model.BinStatus(s)
			return v, v.Valid()
		}
		return nil, false
	})
}

func parseEnum(field Field, value interface{}, convert func(string) (interface{}, bool)) (interface{}, bool, error) {
	text, err := asString(field, value)
	if err != nil || text == "" {
		return nil, false, err
	}
	parsed, ok := convert(strings.ToLower(text))
	if !ok {
		return nil, false, fmt.Errorf("%w: invalid %s %q", ErrInvalidInput, field, text)
	}
	return parsed, true, nil
}

func asString(field Field, value interface{}) (string, error) {
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidInput, field)
	}
	return strings.TrimSpace(text), nil
}

func asIdentifier(field Field, value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case float64:
		if v != math.Trunc(v) {
			return "", fmt.Errorf("%w: %s must be an identifier", ErrInvalidInput, field)
		}
		return strconv.FormatInt(int64(v), 10), nil
	case int:
		return strconv.Itoa(v), nil
	}
	return "", fmt.Errorf("%w: %s must be an identifier", ErrInvalidInput, field)
}

func asInt(field Field, value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidInput, field)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be numeric", ErrInvalidInput, field)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s must be numeric", ErrInvalidInput, field)
}

func asFloat(field Field, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be numeric", ErrInvalidInput, field)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: %s must be numeric", ErrInvalidInput, field)
}

// ParseDate accepts a calendar date or a full timestamp and returns midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidInput
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return dateOnly(parsed), nil
		}
	}
	return time.Time{}, ErrInvalidInput
}

// NormalizeClock turns "9:00", "09:00" or "09:00:00" into "09:00:00".
func NormalizeClock(raw string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if parsed, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return parsed.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("%w: invalid scheduled_time %q", ErrInvalidInput, raw)
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
