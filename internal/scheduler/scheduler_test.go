package scheduler

import (
	"testing"
	"time"
)

func TestNextRun(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		want    time.Time
		wantJob string
	}{
		{
			name:    "before daily time",
			now:     time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC),
			want:    time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			wantJob: "daily",
		},
		{
			name:    "after daily time rolls to tomorrow",
			now:     time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			want:    time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC),
			wantJob: "daily",
		},
		{
			name:    "monthly wins between daily and monthly on the first",
			now:     time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			want:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			wantJob: "monthly",
		},
		{
			name:    "daily fires before monthly on the first",
			now:     time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
			want:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			wantJob: "daily",
		},
		{
			name:    "monthly rolls into next month",
			now:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			want:    time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			wantJob: "daily",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, job := nextRun(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("nextRun(%v) time = %v, want %v", tt.now, got, tt.want)
			}
			if job != tt.wantJob {
				t.Errorf("nextRun(%v) job = %q, want %q", tt.now, job, tt.wantJob)
			}
		})
	}
}
