package memorial

import (
	"testing"
	"time"

	"github.com/hitoshi/omoide/internal/model"
)

func TestComputeDayCount(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		target    time.Time
		wantKind  model.DayCountKind
		wantDays  int
		wantLabel string
	}{
		{
			name:      "当日はD-Day",
			target:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			wantKind:  model.DayCountOnTheDay,
			wantDays:  0,
			wantLabel: "D-Day",
		},
		{
			name:      "5日後はD-5",
			target:    time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
			wantKind:  model.DayCountUpcoming,
			wantDays:  5,
			wantLabel: "D-5",
		},
		{
			name:      "3日前はD+3",
			target:    time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
			wantKind:  model.DayCountElapsed,
			wantDays:  3,
			wantLabel: "D+3",
		},
		{
			name:      "翌日はD-1",
			target:    time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			wantKind:  model.DayCountUpcoming,
			wantDays:  1,
			wantLabel: "D-1",
		},
		{
			name:      "前日はD+1",
			target:    time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantKind:  model.DayCountElapsed,
			wantDays:  1,
			wantLabel: "D+1",
		},
		{
			name:      "1年後はD-365",
			target:    time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC),
			wantKind:  model.DayCountUpcoming,
			wantDays:  365,
			wantLabel: "D-365",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDayCount(tt.target, now)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if got.Days != tt.wantDays {
				t.Errorf("Days = %d, want %d", got.Days, tt.wantDays)
			}
			if label := got.Label(); label != tt.wantLabel {
				t.Errorf("Label() = %q, want %q", label, tt.wantLabel)
			}
		})
	}
}

// TestComputeDayCount_TimeOfDayIgnored は時刻成分が結果に影響しないことを検証する。
func TestComputeDayCount_TimeOfDayIgnored(t *testing.T) {
	target := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	// 同じ暦日内のどの時刻でも結果は変わらない
	for _, hour := range []int{0, 12, 23} {
		now := time.Date(2026, 9, 1, hour, 59, 59, 0, time.UTC)
		got := ComputeDayCount(target, now)
		if got.Kind != model.DayCountUpcoming || got.Days != 1 {
			t.Errorf("ComputeDayCount at hour %d = %+v, want upcoming/1", hour, got)
		}
	}
}
