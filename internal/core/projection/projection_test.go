package projection

import (
	"fmt"
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

func event(id, title, sector string, start time.Time) domain.Event {
	return domain.Event{
		ID:        id,
		Title:     title,
		Type:      domain.EventTypeReuniao,
		Location:  domain.LocationAuditorio,
		Sector:    sector,
		Status:    domain.EventStatusAgendado,
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		CreatedAt: start,
	}
}

func ids(events []domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	events := []domain.Event{
		event("a", "Workshop X", "TI", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
		event("b", "Pauta da reunião mensal", "RH", time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)),
	}
	got := FilterEvents(events, EventFilter{Search: "REUNIÃO"})
	assert.Equal(t, []string{"b"}, ids(got))

	events[0].Description = "Segue a Reunião de alinhamento"
	got = FilterEvents(events, EventFilter{Search: "reunião"})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestFilterCombinesDimensions(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ti := event("a", "Workshop X", "TI", at)
	ti.Type = domain.EventTypeWorkshop
	rh := event("b", "Workshop Y", "RH", at)
	rh.Type = domain.EventTypeWorkshop
	events := []domain.Event{ti, rh}

	got := FilterEvents(events, EventFilter{Type: domain.EventTypeWorkshop, Sector: "TI"})
	assert.Equal(t, []string{"a"}, ids(got))

	got = FilterEvents(events, EventFilter{})
	assert.Equal(t, []string{"a", "b"}, ids(got))

	got = FilterEvents(events, EventFilter{Status: domain.EventStatusCancelado})
	assert.Empty(t, got)

	assert.True(t, EventFilter{Location: domain.LocationAuditorio}.Match(ti))
	assert.False(t, EventFilter{Location: domain.LocationGabinete}.Match(ti))
}

func TestScopeToSectorRunsBeforeFilters(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []domain.Event{
		event("a", "Workshop X", "TI", at),
		event("b", "Workshop Y", "RH", at),
		event("c", "Seminário", "TI", at),
	}
	scoped := ScopeToSector(events, "TI")
	assert.Equal(t, []string{"a", "c"}, ids(scoped))
	assert.Equal(t, []string{"a"}, ids(List(scoped, EventFilter{Search: "workshop"})))
	assert.Empty(t, ScopeToSector(events, ""))

	unassigned := append(events, event("d", "Sem setor", "", at))
	assert.Equal(t, []string{"d"}, ids(ScopeToSector(unassigned, "")))
}

func TestListSortsStableByStart(t *testing.T) {
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	events := []domain.Event{
		event("late", "C", "TI", base.Add(48*time.Hour)),
		event("tie1", "A", "TI", base),
		event("early", "B", "TI", base.Add(-time.Hour)),
		event("tie2", "D", "TI", base),
	}
	got := List(events, EventFilter{})
	assert.Equal(t, []string{"early", "tie1", "tie2", "late"}, ids(got))
	assert.Equal(t, "late", events[0].ID, "input must not be reordered")
}

func TestCalendarBucketsByCalendarDate(t *testing.T) {
	late := event("late", "Sessão noturna", "TI", time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC))
	early := event("early", "Café", "TI", time.Date(2024, 3, 15, 0, 10, 0, 0, time.UTC))
	other := event("other", "Outro dia", "TI", time.Date(2024, 3, 16, 8, 0, 0, 0, time.UTC))

	view := Calendar([]domain.Event{late, early, other}, MonthRange(late.StartDate, time.UTC), EventFilter{}, time.UTC)

	require.Len(t, view.Days, 31)
	day := view.Days[14]
	assert.True(t, day.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"late", "early"}, ids(day.Preview))
	assert.Equal(t, 2, day.Total)
	assert.Equal(t, 1, view.Days[15].Total)
	assert.Equal(t, 0, view.Days[0].Total)
	assert.NotNil(t, view.Days[0].Preview)
}

func TestCalendarUsesViewerLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	e := event("a", "Plenária", "TI", time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC))

	view := Calendar([]domain.Event{e}, MonthRange(e.StartDate, saoPaulo), EventFilter{}, saoPaulo)
	assert.Equal(t, 1, view.Days[14].Total)
	assert.Equal(t, 0, view.Days[15].Total)
}

// Brazil started DST at midnight on 2018-11-04: clocks went from 00:00 to 01:00.
func TestCalendarKeepsDaysAcrossMidnightDSTChange(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	onChange := event("change", "Abertura", "TI", time.Date(2018, 11, 4, 9, 0, 0, 0, saoPaulo))
	after := event("after", "Plenária", "TI", time.Date(2018, 11, 20, 10, 0, 0, 0, saoPaulo))
	before := event("before", "Reunião", "TI", time.Date(2018, 11, 3, 22, 0, 0, 0, saoPaulo))

	rng := CalendarMonth(2018, time.November, saoPaulo)
	view := Calendar([]domain.Event{onChange, after, before}, rng, EventFilter{}, saoPaulo)

	require.Len(t, view.Days, 30)
	for i, day := range view.Days {
		y, m, d := day.Date.In(saoPaulo).Date()
		require.Equal(t, [3]int{2018, 11, i + 1}, [3]int{y, int(m), d}, "bucket %d", i)
	}
	assert.True(t, view.Days[3].Date.Equal(time.Date(2018, 11, 4, 3, 0, 0, 0, time.UTC)), "day starts when clocks reach 01:00")
	assert.Equal(t, []string{"before"}, ids(view.Days[2].Preview))
	assert.Equal(t, []string{"change"}, ids(view.Days[3].Preview))
	assert.Equal(t, []string{"after"}, ids(view.Days[19].Preview))

	total := 0
	for _, day := range view.Days {
		total += day.Total
	}
	assert.Equal(t, 3, total)

	assert.True(t, rng.Contains(after.StartDate, saoPaulo))
	assert.True(t, MonthRange(after.StartDate, saoPaulo).Contains(onChange.StartDate, saoPaulo))
	assert.False(t, rng.Contains(time.Date(2018, 10, 31, 23, 0, 0, 0, saoPaulo), saoPaulo))

	timeline := MonthlyTimeline([]domain.Event{onChange, after}, after.StartDate, 2, saoPaulo)
	require.Len(t, timeline, 2)
	assert.Equal(t, "2018-11", timeline[1].Label)
	assert.Equal(t, 2, timeline[1].Count)

	logs := []domain.AuditLog{
		{ID: "1", Timestamp: time.Date(2018, 11, 4, 1, 30, 0, 0, saoPaulo)},
		{ID: "2", Timestamp: time.Date(2018, 11, 3, 23, 30, 0, 0, saoPaulo)},
	}
	day := time.Date(2018, 11, 4, 0, 0, 0, 0, time.UTC)
	got := FilterAuditLogs(logs, AuditFilter{Day: CalendarRange(day, day, saoPaulo).Start, Location: saoPaulo})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestCalendarReportsOverflowCount(t *testing.T) {
	at := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	var events []domain.Event
	for i := range 5 {
		events = append(events, event(fmt.Sprintf("e%d", i), "Reunião", "TI", at.Add(time.Duration(i)*time.Hour)))
	}
	events = append(events, event("x", "Palestra", "RH", at))

	view := Calendar(events, DateRange{Start: at, End: at}, EventFilter{Sector: "TI"}, time.UTC)
	require.Len(t, view.Days, 1)
	assert.Len(t, view.Events, 5)
	assert.Equal(t, []string{"e0", "e1", "e2"}, ids(view.Days[0].Preview))
	assert.Equal(t, 5, view.Days[0].Total)
	assert.Equal(t, 2, view.Days[0].More())
}

func withParticipants(e domain.Event, n int) domain.Event {
	for i := range n {
		e.Participants = append(e.Participants, domain.Participant{
			ID:    fmt.Sprintf("%s-p%d", e.ID, i),
			Name:  fmt.Sprintf("Pessoa %d", i),
			Email: fmt.Sprintf("pessoa%d@orgao.gov.br", i),
			Role:  domain.ParticipantRoleConvidado,
		})
	}
	return e
}

func TestRosterPaginates(t *testing.T) {
	at := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	events := []domain.Event{
		withParticipants(event("a", "Congresso", "TI", at), 15),
		withParticipants(event("b", "Debate", "RH", at), 8),
	}

	cases := []struct {
		page int
		want int
	}{
		{1, 10},
		{2, 10},
		{3, 3},
		{4, 0},
		{0, 0},
		{-1, 0},
		{math.MaxInt/RosterPageSize + 2, 0},
		{math.MaxInt, 0},
		{math.MinInt, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("page %d", tc.page), func(t *testing.T) {
			got := Roster(events, "", tc.page)
			assert.Len(t, got.Entries, tc.want)
			assert.Equal(t, 23, got.Total)
			assert.Equal(t, 3, got.TotalPages)
			assert.Equal(t, tc.page, got.Page)
		})
	}

	last := Roster(events, "", 3)
	assert.Equal(t, "b", last.Entries[0].EventID)
	assert.Equal(t, "Debate", last.Entries[0].EventTitle)
}

func TestRosterSearchIsOrCombined(t *testing.T) {
	at := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	congresso := event("a", "Congresso Nacional", "TI", at)
	congresso.Participants = []domain.Participant{
		{ID: "p1", Name: "Ana", Email: "ana@orgao.gov.br"},
	}
	debate := event("b", "Debate", "RH", at)
	debate.Participants = []domain.Participant{
		{ID: "p2", Name: "Bruno Congresso", Email: "bruno@orgao.gov.br"},
		{ID: "p3", Name: "Carla", Email: "carla.congresso@orgao.gov.br"},
		{ID: "p4", Name: "Davi", Email: "davi@orgao.gov.br"},
	}

	got := Roster([]domain.Event{congresso, debate}, "CONGRESSO", 1)
	require.Len(t, got.Entries, 3)
	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{got.Entries[0].ID, got.Entries[1].ID, got.Entries[2].ID})
	assert.Equal(t, 1, got.TotalPages)

	empty := Roster(nil, "", 1)
	assert.Equal(t, 0, empty.TotalPages)
	assert.NotNil(t, empty.Entries)
}

func TestFilterAuditLogs(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	logs := []domain.AuditLog{
		{ID: "1", UserName: "Maria Silva", Action: domain.ActionCreatedEvent, Timestamp: day.Add(10 * time.Hour)},
		{ID: "2", UserName: "João Costa", Action: domain.ActionDeletedUser, Timestamp: day.Add(26 * time.Hour)},
		{ID: "3", UserName: "Ana Lima", Action: domain.ActionEditedEvent, Timestamp: day.Add(time.Hour)},
	}

	assert.Len(t, FilterAuditLogs(logs, AuditFilter{}), 3)
	assert.Equal(t, "1", FilterAuditLogs(logs, AuditFilter{Search: "MARIA"})[0].ID)
	assert.Len(t, FilterAuditLogs(logs, AuditFilter{Search: "event"}), 2)
	assert.Len(t, FilterAuditLogs(logs, AuditFilter{Day: day}), 2)
	assert.Len(t, FilterAuditLogs(logs, AuditFilter{Search: "user", Day: day}), 0)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	a := event("a", "A", "TI", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	a.Status = domain.EventStatusConcluido
	b := event("b", "B", "TI", time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC))
	b.Status = domain.EventStatusEmAndamento
	c := event("c", "C", "TI", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	c.Status = domain.EventStatusCancelado

	got := Summarize([]domain.Event{a, b, c}, now, time.UTC)
	assert.Equal(t, Dashboard{Total: 3, ThisMonth: 2, Completed: 1, InProgress: 1, Canceled: 1}, got)
}

func TestCountByTypeSkipsEmptyTypes(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	w := event("w", "W", "TI", at)
	w.Type = domain.EventTypeWorkshop
	events := []domain.Event{event("a", "A", "TI", at), w, event("b", "B", "TI", at)}

	got := CountByType(events)
	require.Len(t, got, 2)
	assert.Equal(t, domain.EventTypeReuniao, got[0].Type)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, domain.EventTypeWorkshop, got[1].Type)
	assert.Equal(t, 1, got[1].Count)
}

func TestMonthlyTimeline(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	events := []domain.Event{
		event("a", "A", "TI", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
		event("b", "B", "TI", time.Date(2023, 9, 30, 9, 0, 0, 0, time.UTC)),
		event("c", "C", "TI", time.Date(2023, 8, 31, 9, 0, 0, 0, time.UTC)),
		event("d", "D", "TI", time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)),
	}
	got := MonthlyTimeline(events, now, 7, time.UTC)
	require.Len(t, got, 7)
	assert.Equal(t, "2023-09", got[0].Label)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, "2024-03", got[6].Label)
	assert.Equal(t, 1, got[6].Count)

	total := 0
	for _, m := range got {
		total += m.Count
	}
	assert.Equal(t, 2, total)
}

func TestRecentEvents(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var events []domain.Event
	for i := range 7 {
		e := event(fmt.Sprintf("e%d", i), "E", "TI", base)
		e.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		events = append(events, e)
	}
	got := RecentEvents(events, 5)
	assert.Equal(t, []string{"e6", "e5", "e4", "e3", "e2"}, ids(got))
	assert.Equal(t, "e0", events[0].ID)
}

func TestBuildReport(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	in := withParticipants(event("a", "A", "TI", start.Add(24*time.Hour)), 4)
	in.Participants[0].CheckedIn = true
	other := withParticipants(event("b", "B", "RH", start.Add(48*time.Hour)), 2)
	other.Participants[1].CheckedIn = true
	out := withParticipants(event("c", "C", "TI", start.AddDate(0, 2, 0)), 10)

	period := DateRange{Start: start, End: start.AddDate(0, 1, -1)}
	r := BuildReport([]domain.Event{in, other, out}, period, EventFilter{}, time.UTC)
	assert.Equal(t, 2, r.TotalEvents)
	assert.Equal(t, 6, r.TotalParticipants)
	assert.Equal(t, 2, r.CheckedIn)
	assert.InDelta(t, 2.0/6.0, r.ParticipationRate, 1e-9)
	assert.InDelta(t, 3.0, r.AverageParticipants, 1e-9)
	assert.Equal(t, []SectorCount{{Sector: "RH", Count: 1}, {Sector: "TI", Count: 1}}, r.EventsBySector)

	scoped := BuildReport([]domain.Event{in, other, out}, period, EventFilter{Sector: "TI"}, time.UTC)
	assert.Equal(t, 1, scoped.TotalEvents)

	empty := BuildReport(nil, period, EventFilter{}, time.UTC)
	assert.Zero(t, empty.ParticipationRate)
	assert.Zero(t, empty.AverageParticipants)
}
