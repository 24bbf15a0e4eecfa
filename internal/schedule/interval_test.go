package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 3, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "disjoint before",
			a:    Interval{at(9, 0), at(10, 0)},
			b:    Interval{at(11, 0), at(12, 0)},
			want: false,
		},
		{
			name: "disjoint after",
			a:    Interval{at(11, 0), at(12, 0)},
			b:    Interval{at(9, 0), at(10, 0)},
			want: false,
		},
		{
			name: "touching end-to-start is free",
			a:    Interval{at(9, 0), at(10, 0)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: false,
		},
		{
			name: "touching start-to-end is free",
			a:    Interval{at(10, 0), at(11, 0)},
			b:    Interval{at(9, 0), at(10, 0)},
			want: false,
		},
		{
			name: "partial overlap at front",
			a:    Interval{at(9, 30), at(10, 30)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: true,
		},
		{
			name: "partial overlap at back",
			a:    Interval{at(10, 30), at(11, 30)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: true,
		},
		{
			name: "candidate contains booking",
			a:    Interval{at(9, 0), at(12, 0)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: true,
		},
		{
			name: "booking contains candidate",
			a:    Interval{at(10, 15), at(10, 45)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: true,
		},
		{
			name: "identical intervals conflict",
			a:    Interval{at(10, 0), at(11, 0)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// overlap is symmetric
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestConflicts(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	booked := []Booked{
		{ID: first, Interval: Interval{at(10, 0), at(11, 0)}},
		{ID: second, Interval: Interval{at(14, 0), at(15, 0)}},
	}

	ids := Conflicts(Interval{at(10, 15), at(11, 15)}, booked)
	assert.Equal(t, []uuid.UUID{first}, ids)

	ids = Conflicts(Interval{at(10, 30), at(14, 30)}, booked)
	assert.Equal(t, []uuid.UUID{first, second}, ids)

	assert.True(t, IsFree(Interval{at(11, 0), at(12, 0)}, booked))
	assert.False(t, IsFree(Interval{at(14, 0), at(15, 0)}, booked))
	assert.True(t, IsFree(Interval{at(9, 0), at(10, 0)}, nil))
}
