package duedate

import (
	"time"

	"github.com/phrazzld/postpone/internal/domain"
)

// minuteSlots are the only minutes a generated due date may fall on.
var minuteSlots = [...]int{0, 15, 30, 45}

// bounds is a settings range after clamping.
type bounds struct {
	minDays, maxDays int
	minHour, maxHour int
}

// normalize clamps settings into a usable range. An inverted range collapses
// to its lower end.
func normalize(s domain.Settings) bounds {
	b := bounds{
		minDays: max(s.MinDaysAhead, 0),
		maxDays: max(s.MaxDaysAhead, 0),
		minHour: clampHour(s.EarliestHour),
		maxHour: clampHour(s.LatestHour),
	}
	if b.minDays > b.maxDays {
		b.maxDays = b.minDays
	}
	if b.minHour > b.maxHour {
		b.maxHour = b.minHour
	}
	return b
}

func clampHour(h int) int {
	return min(max(h, 0), 23)
}

// compute is the pure core of the generator. intN must return a uniform value
// in [0, n).
func compute(b bounds, now time.Time, loc *time.Location, intN func(int) int) time.Time {
	days := b.minDays + intN(b.maxDays-b.minDays+1)
	hour := b.minHour + intN(b.maxHour-b.minHour+1)
	minute := minuteSlots[intN(len(minuteSlots))]

	day := now.In(loc).AddDate(0, 0, days)
	due := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	if due.Hour() == hour && due.Minute() == minute {
		return due
	}
	return skipGap(b, day, loc, intN)
}

// skipGap is used when the drawn wall time falls in a daylight-saving gap on
// day. It draws again from the slots in range that exist that day, moving on
// to the next day when the whole hour range is skipped.
func skipGap(b bounds, day time.Time, loc *time.Location, intN func(int) int) time.Time {
	for {
		var valid []time.Time
		for h := b.minHour; h <= b.maxHour; h++ {
			for _, m := range minuteSlots {
				t := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc)
				if t.Hour() == h && t.Minute() == m {
					valid = append(valid, t)
				}
			}
		}
		if len(valid) > 0 {
			return valid[intN(len(valid))]
		}
		day = day.AddDate(0, 0, 1)
	}
}
