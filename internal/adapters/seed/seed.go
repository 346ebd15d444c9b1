// Package seed generates a demo dataset shaped like the institution's real
// calendar and loads it straight into a store.
package seed

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
)

const (
	DefaultEvents        = 50
	DefaultNotifications = 10
	DefaultAuditLogs     = 30
)

// Users is the fixed staff directory. The first entry is the default
// signed-in administrator.
var Users = []domain.User{
	{
		ID:     "1",
		Name:   "Maria Silva Santos",
		Email:  "maria.santos@orgao.gov.br",
		Role:   domain.UserRoleAdmin,
		Sector: "Presidência",
		Avatar: "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=100&h=100&fit=crop&crop=face",
		Status: domain.UserStatusAtivo,
	},
	{
		ID:     "2",
		Name:   "João Pereira Costa",
		Email:  "joao.costa@orgao.gov.br",
		Role:   domain.UserRoleOrganizer,
		Sector: "Diretoria Técnica",
		Avatar: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=100&h=100&fit=crop&crop=face",
		Status: domain.UserStatusAtivo,
	},
	{
		ID:     "3",
		Name:   "Ana Oliveira Lima",
		Email:  "ana.lima@orgao.gov.br",
		Role:   domain.UserRoleOrganizer,
		Sector: "Assessoria de Comunicação",
		Avatar: "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=100&h=100&fit=crop&crop=face",
		Status: domain.UserStatusAtivo,
	},
	{
		ID:     "4",
		Name:   "Carlos Souza Almeida",
		Email:  "carlos.almeida@orgao.gov.br",
		Role:   domain.UserRoleParticipant,
		Sector: "Recursos Humanos",
		Status: domain.UserStatusInativo,
	},
}

var (
	documentTypes      = []string{"application/pdf", "application/msword", "application/vnd.ms-excel"}
	documentNames      = []string{"Pauta da Reunião", "Ata de Reunião", "Apresentação", "Relatório", "Convite Oficial"}
	notificationTitles = []string{
		"Evento atualizado",
		"Novo participante confirmado",
		"Documento anexado",
		"Lembrete de evento",
		"Evento cancelado",
	}
	auditActions = []string{
		domain.ActionCreatedEvent,
		domain.ActionEditedEvent,
		domain.ActionDeletedEvent,
		domain.ActionEditedUser,
	}
)

type Config struct {
	// Seed makes generation repeatable. Zero picks a random seed.
	Seed          uint64
	Events        int
	Notifications int
	AuditLogs     int
	Now           time.Time
}

func (c Config) withDefaults() Config {
	if c.Events < 0 {
		c.Events = 0
	}
	if c.Notifications == 0 {
		c.Notifications = DefaultNotifications
	}
	if c.AuditLogs == 0 {
		c.AuditLogs = DefaultAuditLogs
	}
	if c.Now.IsZero() {
		c.Now = time.Now().UTC()
	}
	return c
}

// Dataset lists every collection in presentation order: newest first for
// users, events and audit logs.
type Dataset struct {
	Users         []domain.User
	Events        []domain.Event
	Notifications []domain.Notification
	AuditLogs     []domain.AuditLog
}

func Generate(cfg Config) Dataset {
	cfg = cfg.withDefaults()
	g := generator{f: gofakeit.New(cfg.Seed), now: cfg.Now}

	ds := Dataset{Users: slices.Clone(Users)}
	for range cfg.Events {
		ds.Events = append(ds.Events, g.event())
	}
	for range cfg.Notifications {
		ds.Notifications = append(ds.Notifications, g.notification(ds.Events))
	}
	for range cfg.AuditLogs {
		ds.AuditLogs = append(ds.AuditLogs, g.auditLog(ds.Events))
	}
	slices.SortStableFunc(ds.AuditLogs, func(a, b domain.AuditLog) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return ds
}

// Load writes ds into store in one transaction, bypassing the audit trail.
func Load(ctx context.Context, store ports.Store, ds Dataset) error {
	err := store.WriteTX(ctx, func(c ports.Collections) error {
		for _, u := range slices.Backward(ds.Users) {
			if err := c.PrependUser(u); err != nil {
				return err
			}
		}
		for _, e := range slices.Backward(ds.Events) {
			if err := c.PrependEvent(e); err != nil {
				return err
			}
		}
		for _, n := range ds.Notifications {
			if err := c.AppendNotification(n); err != nil {
				return err
			}
		}
		for _, l := range slices.Backward(ds.AuditLogs) {
			if err := c.PrependAuditLog(l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("load seed data: %w", err)
	}
	return nil
}

type generator struct {
	f   *gofakeit.Faker
	now time.Time
}

func (g generator) event() domain.Event {
	f := g.f
	start := f.DateRange(g.now.AddDate(0, 0, -30), g.now.AddDate(0, 0, 60)).UTC().Truncate(time.Minute)
	responsible := Users[f.Number(0, len(Users)-1)]
	eventType := domain.EventTypes[f.Number(0, len(domain.EventTypes)-1)]
	createdAt := f.DateRange(g.now.AddDate(-1, 0, 0), g.now).UTC().Truncate(time.Second)

	e := domain.Event{
		ID:              f.UUID(),
		Title:           fmt.Sprintf("%s: %s", eventType.Label(), f.BS()),
		Description:     fmt.Sprintf("%s. %s.", f.HackerPhrase(), f.HackerPhrase()),
		Type:            eventType,
		Modality:        domain.Modalities[f.Number(0, len(domain.Modalities)-1)],
		StartDate:       start,
		EndDate:         start.Add(time.Duration(f.Number(1, 8)) * time.Hour),
		Location:        domain.Locations[f.Number(0, len(domain.Locations)-1)],
		LocationDetails: f.Street(),
		ResponsibleID:   responsible.ID,
		Responsible:     responsible.Name,
		Sector:          responsible.Sector,
		Status:          domain.EventStatuses[f.Number(0, len(domain.EventStatuses)-1)],
		Participants:    g.participants(f.Number(5, 50)),
		Documents:       g.documents(f.Number(1, 5)),
		IsPublic:        g.chance(0.7),
		CreatedAt:       createdAt,
		UpdatedAt:       f.DateRange(createdAt, g.now).UTC().Truncate(time.Second),
		Version:         int64(f.Number(1, 5)),
		Changes:         []domain.Change{},
	}
	if g.chance(0.5) {
		limit := f.Number(20, 200)
		e.MaxParticipants = &limit
	}
	return e
}

func (g generator) participants(n int) []domain.Participant {
	f := g.f
	out := make([]domain.Participant, 0, n)
	for range n {
		p := domain.Participant{
			ID:        f.UUID(),
			Name:      f.Name(),
			Email:     f.Email(),
			Phone:     f.Phone(),
			Role:      domain.ParticipantRoles[f.Number(0, len(domain.ParticipantRoles)-1)],
			Confirmed: g.chance(0.7),
			CheckedIn: g.chance(0.6),
		}
		if p.CheckedIn {
			at := f.DateRange(g.now.AddDate(0, 0, -7), g.now).UTC().Truncate(time.Second)
			p.CheckedInAt = &at
		}
		out = append(out, p)
	}
	return out
}

func (g generator) documents(n int) []domain.Document {
	f := g.f
	out := make([]domain.Document, 0, n)
	for range n {
		out = append(out, domain.Document{
			ID:         f.UUID(),
			Name:       documentNames[f.Number(0, len(documentNames)-1)] + ".pdf",
			Type:       documentTypes[f.Number(0, len(documentTypes)-1)],
			Size:       int64(f.Number(100_000, 5_000_000)),
			URL:        f.URL(),
			UploadedAt: f.DateRange(g.now.AddDate(0, 0, -30), g.now).UTC().Truncate(time.Second),
			UploadedBy: f.Name(),
		})
	}
	return out
}

func (g generator) notification(events []domain.Event) domain.Notification {
	f := g.f
	n := domain.Notification{
		ID:        f.UUID(),
		Title:     notificationTitles[f.Number(0, len(notificationTitles)-1)],
		Message:   f.HackerPhrase(),
		Kind:      domain.NotificationKinds[f.Number(0, len(domain.NotificationKinds)-1)],
		UserID:    Users[0].ID,
		Read:      g.chance(0.3),
		CreatedAt: f.DateRange(g.now.AddDate(0, 0, -7), g.now).UTC().Truncate(time.Second),
	}
	if len(events) > 0 && f.Bool() {
		n.EventID = events[f.Number(0, len(events)-1)].ID
	}
	return n
}

func (g generator) auditLog(events []domain.Event) domain.AuditLog {
	f := g.f
	user := Users[f.Number(0, len(Users)-1)]
	l := domain.AuditLog{
		ID:        f.UUID(),
		Timestamp: f.DateRange(g.now.AddDate(0, 0, -15), g.now).UTC().Truncate(time.Second),
		UserID:    user.ID,
		UserName:  user.Name,
		Action:    auditActions[f.Number(0, len(auditActions)-1)],
	}
	if l.Action == domain.ActionEditedUser {
		l.Details = Users[f.Number(0, len(Users)-1)].Name
	} else if len(events) > 0 {
		l.Details = events[f.Number(0, len(events)-1)].Title
	}
	return l
}

func (g generator) chance(p float64) bool {
	return g.f.Float64Range(0, 1) < p
}
