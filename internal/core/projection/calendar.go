package projection

import (
	"cmp"
	"time"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

// DayPreviewSize is how many events a day bucket lists before collapsing the
// rest into a count.
const DayPreviewSize = 3

// DateRange spans whole calendar days from Start's date through End's date,
// both inclusive.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthRange returns the range covering the calendar month of t in loc.
func MonthRange(t time.Time, loc *time.Location) DateRange {
	d := dateOf(t, loc)
	return CalendarMonth(d.year, d.month, loc)
}

// CalendarMonth returns the range covering month of year in loc.
func CalendarMonth(year int, month time.Month, loc *time.Location) DateRange {
	first := normalizeDate(year, month, 1, loc)
	last := normalizeDate(year, month+1, 0, loc)
	return DateRange{Start: first.start(loc), End: last.start(loc)}
}

// CalendarRange covers the dates of first through last in loc. Only the year,
// month and day of the arguments are read, so dates parsed in UTC name the
// same days in any zone.
func CalendarRange(first, last time.Time, loc *time.Location) DateRange {
	from := normalizeDate(first.Year(), first.Month(), first.Day(), loc)
	to := normalizeDate(last.Year(), last.Month(), last.Day(), loc)
	return DateRange{Start: from.start(loc), End: to.start(loc)}
}

// Days lists the first instant of every day in the range, in loc.
func (r DateRange) Days(loc *time.Location) []time.Time {
	first := dateOf(r.Start, loc)
	last := dateOf(r.End, loc)
	var days []time.Time
	for i := 0; ; i++ {
		d := normalizeDate(first.year, first.month, first.day+i, loc)
		if d.compare(last) > 0 {
			return days
		}
		days = append(days, d.start(loc))
	}
}

// Contains reports whether t falls on one of the range's days in loc.
func (r DateRange) Contains(t time.Time, loc *time.Location) bool {
	d := dateOf(t, loc)
	return d.compare(dateOf(r.Start, loc)) >= 0 && d.compare(dateOf(r.End, loc)) <= 0
}

type DayBucket struct {
	Date    time.Time      `json:"date"`
	Preview []domain.Event `json:"preview"`
	Total   int            `json:"total"`
}

// More is the number of matching events not shown in the preview.
func (b DayBucket) More() int {
	return b.Total - len(b.Preview)
}

type CalendarView struct {
	Events []domain.Event `json:"events"`
	Days   []DayBucket    `json:"days"`
}

// Calendar filters events and buckets the matches by the calendar date of
// their start in loc. Every day of rng gets a bucket, empty or not. Events
// keep their collection order inside a bucket.
func Calendar(events []domain.Event, rng DateRange, f EventFilter, loc *time.Location) CalendarView {
	filtered := FilterEvents(events, f)

	byDay := make(map[civilDate][]domain.Event)
	for _, e := range filtered {
		day := dateOf(e.StartDate, loc)
		byDay[day] = append(byDay[day], e)
	}

	days := rng.Days(loc)
	view := CalendarView{Events: filtered, Days: make([]DayBucket, 0, len(days))}
	for _, day := range days {
		matches := byDay[dateOf(day, loc)]
		preview := matches
		if len(preview) > DayPreviewSize {
			preview = preview[:DayPreviewSize]
		}
		view.Days = append(view.Days, DayBucket{
			Date:    day,
			Preview: append([]domain.Event{}, preview...),
			Total:   len(matches),
		})
	}
	return view
}

// civilDate is a calendar date with no time of day. Comparing dates rather
// than local midnights keeps days intact in zones where a DST change skips
// midnight.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time, loc *time.Location) civilDate {
	y, m, d := t.In(loc).Date()
	return civilDate{year: y, month: m, day: d}
}

// normalizeDate resolves out-of-range months and days the way time.Date does.
// Noon is used because no zone skips it.
func normalizeDate(year int, month time.Month, day int, loc *time.Location) civilDate {
	return dateOf(time.Date(year, month, day, 12, 0, 0, 0, loc), loc)
}

func (d civilDate) compare(o civilDate) int {
	if c := cmp.Compare(d.year, o.year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.month, o.month); c != 0 {
		return c
	}
	return cmp.Compare(d.day, o.day)
}

// start is the first instant of the day in loc: midnight, or the end of the
// gap when a DST change skips midnight.
func (d civilDate) start(loc *time.Location) time.Time {
	t := time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
	if dateOf(t, loc) == d {
		return t
	}
	noon := time.Date(d.year, d.month, d.day, 12, 0, 0, 0, loc)
	_, midnightOffset := t.Zone()
	_, noonOffset := noon.Zone()
	return t.Add(time.Duration(noonOffset-midnightOffset) * time.Second)
}
