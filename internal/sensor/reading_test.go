package sensor

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type mockApplier struct {
	mock.Mock
}

func (m *mockApplier) ApplyReading(ctx context.Context, id string, level int) (*model.Bin, error) {
	args := m.Called(ctx, id, level)
	if bin, ok := args.Get(0).(*model.Bin); ok {
		return bin, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestParse(t *testing.T) {
	h := NewHandler("bins/+/fill_level", nil, zerolog.Nop())

	tests := []struct {
		name    string
		topic   string
		payload string
		want    Reading
		wantErr bool
	}{
		{name: "bare integer", topic: "bins/BIN-1/fill_level", payload: "73", want: Reading{BinID: "BIN-1", FillLevel: 73}},
		{name: "padded integer", topic: "bins/BIN-1/fill_level", payload: " 5\n", want: Reading{BinID: "BIN-1", FillLevel: 5}},
		{name: "json", topic: "bins/BIN-2/fill_level", payload: `{"fill_level": 91.6}`, want: Reading{BinID: "BIN-2", FillLevel: 92}},
		{name: "json bin override", topic: "bins/x/fill_level", payload: `{"bin_id":"BIN-3","fill_level":10}`, want: Reading{BinID: "BIN-3", FillLevel: 10}},
		{name: "json without level", topic: "bins/BIN-2/fill_level", payload: `{"bin_id":"BIN-2"}`, wantErr: true},
		{name: "garbage", topic: "bins/BIN-2/fill_level", payload: "full", wantErr: true},
		{name: "no bin id", topic: "bins", payload: "10", wantErr: true},
		{name: "json level above range", topic: "bins/BIN-2/fill_level", payload: `{"fill_level": 1e300}`, wantErr: true},
		{name: "json level below range", topic: "bins/BIN-2/fill_level", payload: `{"fill_level": -0.6}`, wantErr: true},
		{name: "json level at upper bound", topic: "bins/BIN-2/fill_level", payload: `{"fill_level": 100.0}`, want: Reading{BinID: "BIN-2", FillLevel: 100}},
		{name: "integer above range", topic: "bins/BIN-2/fill_level", payload: "101", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Parse(tt.topic, []byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandle_AppliesReading(t *testing.T) {
	applier := new(mockApplier)
	applier.On("ApplyReading", mock.Anything, "BIN-1", 95).
		Return(&model.Bin{ID: "BIN-1", FillLevel: 95, Status: model.BinStatusFull}, nil)

	h := NewHandler("bins/+/fill_level", applier, zerolog.Nop())
	require.NoError(t, h.Handle(context.Background(), "bins/BIN-1/fill_level", []byte("95")))
	applier.AssertExpectations(t)
}

func TestHandle_PropagatesApplyError(t *testing.T) {
	applier := new(mockApplier)
	applier.On("ApplyReading", mock.Anything, "BIN-1", 40).Return(nil, errors.New("not found"))

	h := NewHandler("bins/+/fill_level", applier, zerolog.Nop())
	err := h.Handle(context.Background(), "bins/BIN-1/fill_level", []byte("40"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BIN-1")
}

func TestHandle_OutOfRangeNeverApplied(t *testing.T) {
	applier := new(mockApplier)

	h := NewHandler("bins/+/fill_level", applier, zerolog.Nop())
	err := h.Handle(context.Background(), "bins/BIN-1/fill_level", []byte(`{"fill_level": 9e18}`))
	require.Error(t, err)
	applier.AssertNotCalled(t, "ApplyReading", mock.Anything, mock.Anything, mock.Anything)
}
