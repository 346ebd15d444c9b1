package projection

import (
	"cmp"
	"slices"
	"time"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

// Dashboard holds the headline counters of the overview screen.
type Dashboard struct {
	Total      int `json:"total"`
	ThisMonth  int `json:"this_month"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Canceled   int `json:"canceled"`
}

func Summarize(events []domain.Event, now time.Time, loc *time.Location) Dashboard {
	month := MonthRange(now, loc)
	d := Dashboard{Total: len(events)}
	for _, e := range events {
		if month.Contains(e.StartDate, loc) {
			d.ThisMonth++
		}
		switch e.Status {
		case domain.EventStatusConcluido:
			d.Completed++
		case domain.EventStatusEmAndamento:
			d.InProgress++
		case domain.EventStatusCancelado:
			d.Canceled++
		}
	}
	return d
}

type TypeCount struct {
	Type  domain.EventType `json:"type"`
	Label string           `json:"label"`
	Count int              `json:"count"`
}

// CountByType counts events per type in catalogue order, omitting types with
// no events.
func CountByType(events []domain.Event) []TypeCount {
	counts := make(map[domain.EventType]int)
	for _, e := range events {
		counts[e.Type]++
	}
	out := []TypeCount{}
	for _, t := range domain.EventTypes {
		if n := counts[t]; n > 0 {
			out = append(out, TypeCount{Type: t, Label: t.Label(), Count: n})
		}
	}
	return out
}

type SectorCount struct {
	Sector string `json:"sector"`
	Count  int    `json:"count"`
}

// CountBySector orders sectors by descending count, then by name.
func CountBySector(events []domain.Event) []SectorCount {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Sector]++
	}
	out := make([]SectorCount, 0, len(counts))
	for sector, n := range counts {
		out = append(out, SectorCount{Sector: sector, Count: n})
	}
	slices.SortFunc(out, func(a, b SectorCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Sector, b.Sector)
	})
	return out
}

type MonthCount struct {
	Month time.Time `json:"month"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

// MonthlyTimeline counts events by start month for the given number of months
// ending with the month of now, oldest first.
func MonthlyTimeline(events []domain.Event, now time.Time, months int, loc *time.Location) []MonthCount {
	if months <= 0 {
		return []MonthCount{}
	}
	type monthKey struct {
		year  int
		month time.Month
	}
	current := dateOf(now, loc)
	out := make([]MonthCount, months)
	index := make(map[monthKey]int, months)
	for i := range months {
		d := normalizeDate(current.year, current.month+time.Month(i-months+1), 1, loc)
		m := d.start(loc)
		out[i] = MonthCount{Month: m, Label: m.Format("2006-01")}
		index[monthKey{d.year, d.month}] = i
	}
	for _, e := range events {
		d := dateOf(e.StartDate, loc)
		if i, ok := index[monthKey{d.year, d.month}]; ok {
			out[i].Count++
		}
	}
	return out
}

// RecentEvents returns up to n events, most recently created first.
func RecentEvents(events []domain.Event, n int) []domain.Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b domain.Event) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []domain.Event{}
	}
	return out
}

type Report struct {
	Period              DateRange     `json:"period"`
	TotalEvents         int           `json:"total_events"`
	EventsByType        []TypeCount   `json:"events_by_type"`
	EventsBySector      []SectorCount `json:"events_by_sector"`
	TotalParticipants   int           `json:"total_participants"`
	CheckedIn           int           `json:"checked_in"`
	ParticipationRate   float64       `json:"participation_rate"`
	AverageParticipants float64       `json:"average_participants"`
}

// BuildReport aggregates the events starting inside period that pass f.
// ParticipationRate is the checked-in share of all registered participants.
func BuildReport(events []domain.Event, period DateRange, f EventFilter, loc *time.Location) Report {
	var selected []domain.Event
	for _, e := range FilterEvents(events, f) {
		if period.Contains(e.StartDate, loc) {
			selected = append(selected, e)
		}
	}

	r := Report{
		Period:         period,
		TotalEvents:    len(selected),
		EventsByType:   CountByType(selected),
		EventsBySector: CountBySector(selected),
	}
	for _, e := range selected {
		r.TotalParticipants += len(e.Participants)
		for _, p := range e.Participants {
			if p.CheckedIn {
				r.CheckedIn++
			}
		}
	}
	if r.TotalParticipants > 0 {
		r.ParticipationRate = float64(r.CheckedIn) / float64(r.TotalParticipants)
	}
	if r.TotalEvents > 0 {
		r.AverageParticipants = float64(r.TotalParticipants) / float64(r.TotalEvents)
	}
	return r
}
