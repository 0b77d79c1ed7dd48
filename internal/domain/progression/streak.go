package progression

import (
	"sort"
	"time"

	"github.com/dchandra05/sprout-api/internal/domain"
)

// Streak is the derived current/longest consecutive-day activity run.
type Streak struct {
	Current int
	Longest int
}

// deriveStreak computes the streak from the distinct calendar days with
// qualifying activity, measured as of now.
//
// Current counts consecutive days ending today, or ending yesterday
// when today has no activity yet, so a learner's streak is not shown as
// broken before they have had a chance to act. A gap of one or more
// empty days resets the current run. Longest is the maximum run ever
// observed.
//
// All comparisons use UTC calendar days (domain.CalendarDay); the log
// may contain duplicates or unsorted entries.
func deriveStreak(activeDays []time.Time, now time.Time) Streak {
	if len(activeDays) == 0 {
		return Streak{}
	}

	// Normalize to unique, sorted UTC days.
	seen := make(map[time.Time]struct{}, len(activeDays))
	days := make([]time.Time, 0, len(activeDays))
	for _, d := range activeDays {
		day := domain.CalendarDay(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest := 0
	run := 0
	var prev time.Time
	for i, day := range days {
		if i > 0 && day.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = day
	}

	// The trailing run only counts as current if it reaches today or
	// yesterday.
	today := domain.CalendarDay(now)
	last := days[len(days)-1]
	current := 0
	if last.Equal(today) || last.Equal(today.AddDate(0, 0, -1)) {
		current = run
	}

	return Streak{Current: current, Longest: longest}
}
