package professional

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salonsuite/salon-api/internal/model"
	apperrors "github.com/salonsuite/salon-api/pkg/errors"
)

func TestValidateWorkingHours(t *testing.T) {
	tests := []struct {
		name    string
		hours   []model.WorkingHoursEntry
		wantErr bool
	}{
		{
			name: "valid week",
			hours: []model.WorkingHoursEntry{
				{Weekday: 1, StartTime: "09:00", EndTime: "18:00"},
				{Weekday: 2, StartTime: "10:00", EndTime: "16:30"},
			},
		},
		{
			name:  "empty is valid",
			hours: nil,
		},
		{
			name: "duplicate weekday",
			hours: []model.WorkingHoursEntry{
				{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
				{Weekday: 1, StartTime: "13:00", EndTime: "18:00"},
			},
			wantErr: true,
		},
		{
			name: "weekday out of range",
			hours: []model.WorkingHoursEntry{
				{Weekday: 7, StartTime: "09:00", EndTime: "18:00"},
			},
			wantErr: true,
		},
		{
			name: "end before start",
			hours: []model.WorkingHoursEntry{
				{Weekday: 1, StartTime: "18:00", EndTime: "09:00"},
			},
			wantErr: true,
		},
		{
			name: "end equals start",
			hours: []model.WorkingHoursEntry{
				{Weekday: 1, StartTime: "09:00", EndTime: "09:00"},
			},
			wantErr: true,
		},
		{
			name: "malformed time",
			hours: []model.WorkingHoursEntry{
				{Weekday: 1, StartTime: "9am", EndTime: "18:00"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWorkingHours(tt.hours)
			if tt.wantErr {
				assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
