package sensor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type ReadingApplier interface {
	ApplyReading(ctx context.Context, id string, level int) (*model.Bin, error)
}

type Reading struct {
	BinID     string
	FillLevel int
}

const (
	minFillLevel = 0
	maxFillLevel = 100
)

type readingPayload struct {
	BinID     string   `json:"bin_id"`
	FillLevel *float64 `json:"fill_level"`
}

// Handler turns sensor messages into bin fill-level updates.
type Handler struct {
	pattern []string
	bins    ReadingApplier
	log     zerolog.Logger
}

// NewHandler takes the subscription pattern; the bin id is read from the
// topic level matching the first "+" wildcard.
func NewHandler(topicPattern string, bins ReadingApplier, log zerolog.Logger) *Handler {
	return &Handler{
		pattern: strings.Split(topicPattern, "/"),
		bins:    bins,
		log:     log.With().Str("component", "sensor_handler").Logger(),
	}
}

func (h *Handler) Handle(ctx context.Context, topic string, payload []byte) error {
	reading, err := h.Parse(topic, payload)
	if err != nil {
		return err
	}
	bin, err := h.bins.ApplyReading(ctx, reading.BinID, reading.FillLevel)
	if err != nil {
		return fmt.Errorf("apply reading for bin %s: %w", reading.BinID, err)
	}
	h.log.Debug().
		Str("bin_id", bin.ID).
		Int("fill_level", bin.FillLevel).
		Str("status", string(bin.Status)).
		Msg("sensor reading applied")
	return nil
}

// Parse accepts either a bare integer payload or a JSON object with
// fill_level and an optional bin_id overriding the topic.
func (h *Handler) Parse(topic string, payload []byte) (Reading, error) {
	reading := Reading{BinID: h.binIDFromTopic(topic)}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var body readingPayload
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return Reading{}, fmt.Errorf("decode sensor payload: %w", err)
		}
		if body.FillLevel == nil {
			return Reading{}, fmt.Errorf("sensor payload has no fill_level")
		}
		if body.BinID != "" {
			reading.BinID = body.BinID
		}
		level := *body.FillLevel
		if level < minFillLevel || level > maxFillLevel {
			return Reading{}, fmt.Errorf("fill level %v out of range", level)
		}
		reading.FillLevel = int(math.Round(level))
	} else {
		level, err := strconv.Atoi(string(trimmed))
		if err != nil {
			return Reading{}, fmt.Errorf("invalid fill level %q", string(trimmed))
		}
		if level < minFillLevel || level > maxFillLevel {
			return Reading{}, fmt.Errorf("fill level %d out of range", level)
		}
		reading.FillLevel = level
	}

	if reading.BinID == "" {
		return Reading{}, fmt.Errorf("no bin id in topic %q", topic)
	}
	return reading, nil
}

func (h *Handler) binIDFromTopic(topic string) string {
	levels := strings.Split(topic, "/")
	for i, segment := range h.pattern {
		if segment == "+" && i < len(levels) {
			return levels[i]
		}
	}
	return ""
}
