package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 9, hour, minute, 0, 0, time.Local)
}

func TestCurrentPeriod(t *testing.T) {
	tests := []struct {
		name   string
		time   time.Time
		want   int
		wantOK bool
	}{
		{name: "before school", time: at(8, 0)},
		{name: "first period start", time: at(9, 15), want: 1, wantOK: true},
		{name: "mid first period", time: at(9, 45), want: 1, wantOK: true},
		{name: "boundary rolls into second period", time: at(10, 15), want: 2, wantOK: true},
		{name: "morning break", time: at(11, 30)},
		{name: "after lunch", time: at(13, 50), want: 4, wantOK: true},
		{name: "last period", time: at(16, 0), want: 6, wantOK: true},
		{name: "end of day is exclusive", time: at(16, 30)},
		{name: "evening", time: at(20, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CurrentPeriod(tt.time)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
