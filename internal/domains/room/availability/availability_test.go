package availability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/room/availability"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}

	return t
}

func interval(t *testing.T, start, end string) availability.Interval {
	t.Helper()

	i, err := availability.NewInterval(day(start), day(end))
	assert.NoError(t, err)

	return i
}

func TestNewInterval(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
		nights  int
	}{
		{
			name:   "single night",
			start:  "2024-06-01",
			end:    "2024-06-02",
			nights: 1,
		},
		{
			name:   "four nights",
			start:  "2024-06-01",
			end:    "2024-06-05",
			nights: 4,
		},
		{
			name:    "zero nights rejected",
			start:   "2024-06-01",
			end:     "2024-06-01",
			wantErr: true,
		},
		{
			name:    "inverted range rejected",
			start:   "2024-06-05",
			end:     "2024-06-01",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, err := availability.NewInterval(day(tt.start), day(tt.end))

			if tt.wantErr {
				assert.ErrorIs(t, err, availability.ErrEmptyInterval)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.nights, i.Nights())
		})
	}
}

func TestNewInterval_NormalizesToMidnight(t *testing.T) {
	late := time.Date(2024, 6, 1, 23, 15, 0, 0, time.UTC)
	early := time.Date(2024, 6, 3, 4, 0, 0, 0, time.UTC)

	i, err := availability.NewInterval(late, early)
	assert.NoError(t, err)
	assert.Equal(t, day("2024-06-01"), i.Start)
	assert.Equal(t, day("2024-06-03"), i.End)
	assert.Equal(t, 2, i.Nights())
}

func TestInterval_Overlaps(t *testing.T) {
	base := "2024-06-04"
	baseEnd := "2024-06-08"

	tests := []struct {
		name     string
		start    string
		end      string
		overlaps bool
	}{
		{
			name:     "identical",
			start:    base,
			end:      baseEnd,
			overlaps: true,
		},
		{
			name:     "partial overlap at tail",
			start:    "2024-06-06",
			end:      "2024-06-10",
			overlaps: true,
		},
		{
			name:     "partial overlap at head",
			start:    "2024-06-01",
			end:      "2024-06-05",
			overlaps: true,
		},
		{
			name:     "fully contained",
			start:    "2024-06-05",
			end:      "2024-06-06",
			overlaps: true,
		},
		{
			name:     "fully containing",
			start:    "2024-06-01",
			end:      "2024-06-10",
			overlaps: true,
		},
		{
			name:     "abuts at checkout",
			start:    "2024-06-08",
			end:      "2024-06-12",
			overlaps: false,
		},
		{
			name:     "abuts at checkin",
			start:    "2024-06-01",
			end:      "2024-06-04",
			overlaps: false,
		},
		{
			name:     "disjoint",
			start:    "2024-06-20",
			end:      "2024-06-22",
			overlaps: false,
		},
	}

	existing := interval(t, base, baseEnd)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := interval(t, tt.start, tt.end)

			assert.Equal(t, tt.overlaps, existing.Overlaps(candidate))
			assert.Equal(t, tt.overlaps, candidate.Overlaps(existing))
		})
	}
}

func TestIndex_Conflict(t *testing.T) {
	index := availability.NewIndex(
		interval(t, "2024-06-01", "2024-06-05"),
		interval(t, "2024-06-10", "2024-06-12"),
	)

	conflicting, found := index.Conflict(interval(t, "2024-06-04", "2024-06-08"))
	assert.True(t, found)
	assert.Equal(t, interval(t, "2024-06-01", "2024-06-05"), conflicting)

	_, found = index.Conflict(interval(t, "2024-06-05", "2024-06-10"))
	assert.False(t, found)
}

func TestIndex_CanAdmit(t *testing.T) {
	index := availability.NewIndex(interval(t, "2024-06-01", "2024-06-05"))

	// A stay starting on an existing checkout date is admitted.
	assert.True(t, index.CanAdmit(interval(t, "2024-06-05", "2024-06-09")))
	// A stay ending on an existing check-in date is admitted.
	assert.True(t, index.CanAdmit(interval(t, "2024-05-28", "2024-06-01")))
	assert.False(t, index.CanAdmit(interval(t, "2024-06-02", "2024-06-03")))

	index.Add(interval(t, "2024-06-05", "2024-06-09"))
	assert.False(t, index.CanAdmit(interval(t, "2024-06-08", "2024-06-10")))
}

func TestInterval_Contains(t *testing.T) {
	i := interval(t, "2024-06-01", "2024-06-03")

	assert.True(t, i.Contains(day("2024-06-01")))
	assert.True(t, i.Contains(day("2024-06-02")))
	assert.False(t, i.Contains(day("2024-06-03")))
	assert.False(t, i.Contains(day("2024-05-31")))
}
