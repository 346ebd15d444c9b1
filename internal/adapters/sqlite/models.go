package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

// seq keeps insertion order; prepended collections read it descending.

type eventModel struct {
	Seq              int64     `gorm:"column:seq;primaryKey;autoIncrement"`
	ID               string    `gorm:"column:id;not null;uniqueIndex"`
	Title            string    `gorm:"column:title;not null"`
	Description      string    `gorm:"column:description;not null"`
	Type             string    `gorm:"column:type;not null"`
	Modality         string    `gorm:"column:modality;not null"`
	StartDate        time.Time `gorm:"column:start_date;not null"`
	EndDate          time.Time `gorm:"column:end_date;not null"`
	Location         string    `gorm:"column:location;not null"`
	LocationDetails  string    `gorm:"column:location_details;not null"`
	ResponsibleID    string    `gorm:"column:responsible_id;not null"`
	Responsible      string    `gorm:"column:responsible;not null"`
	Sector           string    `gorm:"column:sector;not null"`
	Status           string    `gorm:"column:status;not null"`
	ParticipantsJSON string    `gorm:"column:participants_json;not null"`
	DocumentsJSON    string    `gorm:"column:documents_json;not null"`
	IsPublic         bool      `gorm:"column:is_public;not null"`
	MaxParticipants  *int      `gorm:"column:max_participants"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	Version          int64     `gorm:"column:version;not null"`
	ChangesJSON      string    `gorm:"column:changes_json;not null"`
}

func (eventModel) TableName() string {
	return "events"
}

func eventToModel(e domain.Event) (eventModel, error) {
	participants, err := marshalList(e.Participants)
	if err != nil {
		return eventModel{}, fmt.Errorf("encode participants: %w", err)
	}
	documents, err := marshalList(e.Documents)
	if err != nil {
		return eventModel{}, fmt.Errorf("encode documents: %w", err)
	}
	changes, err := marshalList(e.Changes)
	if err != nil {
		return eventModel{}, fmt.Errorf("encode changes: %w", err)
	}
	return eventModel{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Type:             string(e.Type),
		Modality:         string(e.Modality),
		StartDate:        e.StartDate.UTC(),
		EndDate:          e.EndDate.UTC(),
		Location:         string(e.Location),
		LocationDetails:  e.LocationDetails,
		ResponsibleID:    e.ResponsibleID,
		Responsible:      e.Responsible,
		Sector:           e.Sector,
		Status:           string(e.Status),
		ParticipantsJSON: participants,
		DocumentsJSON:    documents,
		IsPublic:         e.IsPublic,
		MaxParticipants:  e.MaxParticipants,
		CreatedAt:        e.CreatedAt.UTC(),
		UpdatedAt:        e.UpdatedAt.UTC(),
		Version:          e.Version,
		ChangesJSON:      changes,
	}, nil
}

// assignments lists every column except the row identity, for full-row updates.
func (m eventModel) assignments() map[string]any {
	return map[string]any{
		"title":             m.Title,
		"description":       m.Description,
		"type":              m.Type,
		"modality":          m.Modality,
		"start_date":        m.StartDate,
		"end_date":          m.EndDate,
		"location":          m.Location,
		"location_details":  m.LocationDetails,
		"responsible_id":    m.ResponsibleID,
		"responsible":       m.Responsible,
		"sector":            m.Sector,
		"status":            m.Status,
		"participants_json": m.ParticipantsJSON,
		"documents_json":    m.DocumentsJSON,
		"is_public":         m.IsPublic,
		"max_participants":  m.MaxParticipants,
		"created_at":        m.CreatedAt,
		"updated_at":        m.UpdatedAt,
		"version":           m.Version,
		"changes_json":      m.ChangesJSON,
	}
}

func (m eventModel) toDomain() (domain.Event, error) {
	e := domain.Event{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Type:            domain.EventType(m.Type),
		Modality:        domain.Modality(m.Modality),
		StartDate:       m.StartDate.UTC(),
		EndDate:         m.EndDate.UTC(),
		Location:        domain.Location(m.Location),
		LocationDetails: m.LocationDetails,
		ResponsibleID:   m.ResponsibleID,
		Responsible:     m.Responsible,
		Sector:          m.Sector,
		Status:          domain.EventStatus(m.Status),
		IsPublic:        m.IsPublic,
		MaxParticipants: m.MaxParticipants,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
		Version:         m.Version,
	}
	if err := unmarshalList(m.ParticipantsJSON, &e.Participants); err != nil {
		return domain.Event{}, fmt.Errorf("decode participants of %s: %w", m.ID, err)
	}
	if err := unmarshalList(m.DocumentsJSON, &e.Documents); err != nil {
		return domain.Event{}, fmt.Errorf("decode documents of %s: %w", m.ID, err)
	}
	if err := unmarshalList(m.ChangesJSON, &e.Changes); err != nil {
		return domain.Event{}, fmt.Errorf("decode changes of %s: %w", m.ID, err)
	}
	return e, nil
}

type userModel struct {
	Seq    int64  `gorm:"column:seq;primaryKey;autoIncrement"`
	ID     string `gorm:"column:id;not null;uniqueIndex"`
	Name   string `gorm:"column:name;not null"`
	Email  string `gorm:"column:email;not null"`
	Role   string `gorm:"column:role;not null"`
	Sector string `gorm:"column:sector;not null"`
	Avatar string `gorm:"column:avatar;not null"`
	Status string `gorm:"column:status;not null"`
}

func (userModel) TableName() string {
	return "users"
}

func userToModel(u domain.User) userModel {
	return userModel{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
		Sector: u.Sector,
		Avatar: u.Avatar,
		Status: string(u.Status),
	}
}

func (m userModel) assignments() map[string]any {
	return map[string]any{
		"name":   m.Name,
		"email":  m.Email,
		"role":   m.Role,
		"sector": m.Sector,
		"avatar": m.Avatar,
		"status": m.Status,
	}
}

func (m userModel) toDomain() domain.User {
	return domain.User{
		ID:     m.ID,
		Name:   m.Name,
		Email:  m.Email,
		Role:   domain.UserRole(m.Role),
		Sector: m.Sector,
		Avatar: m.Avatar,
		Status: domain.UserStatus(m.Status),
	}
}

type notificationModel struct {
	Seq       int64     `gorm:"column:seq;primaryKey;autoIncrement"`
	ID        string    `gorm:"column:id;not null;uniqueIndex"`
	Title     string    `gorm:"column:title;not null"`
	Message   string    `gorm:"column:message;not null"`
	Kind      string    `gorm:"column:kind;not null"`
	UserID    string    `gorm:"column:user_id;not null"`
	EventID   string    `gorm:"column:event_id;not null"`
	Read      bool      `gorm:"column:read;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationToModel(n domain.Notification) notificationModel {
	return notificationModel{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Kind:      string(n.Kind),
		UserID:    n.UserID,
		EventID:   n.EventID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC(),
	}
}

func (m notificationModel) assignments() map[string]any {
	return map[string]any{
		"title":      m.Title,
		"message":    m.Message,
		"kind":       m.Kind,
		"user_id":    m.UserID,
		"event_id":   m.EventID,
		"read":       m.Read,
		"created_at": m.CreatedAt,
	}
}

func (m notificationModel) toDomain() domain.Notification {
	return domain.Notification{
		ID:        m.ID,
		Title:     m.Title,
		Message:   m.Message,
		Kind:      domain.NotificationKind(m.Kind),
		UserID:    m.UserID,
		EventID:   m.EventID,
		Read:      m.Read,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type auditLogModel struct {
	Seq       int64     `gorm:"column:seq;primaryKey;autoIncrement"`
	ID        string    `gorm:"column:id;not null;uniqueIndex"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	UserID    string    `gorm:"column:user_id;not null"`
	UserName  string    `gorm:"column:user_name;not null"`
	Action    string    `gorm:"column:action;not null"`
	Details   string    `gorm:"column:details;not null"`
}

func (auditLogModel) TableName() string {
	return "audit_logs"
}

func (m auditLogModel) toDomain() domain.AuditLog {
	return domain.AuditLog{
		ID:        m.ID,
		Timestamp: m.Timestamp.UTC(),
		UserID:    m.UserID,
		UserName:  m.UserName,
		Action:    m.Action,
		Details:   m.Details,
	}
}

func marshalList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalList[T any](raw string, out *[]T) error {
	*out = []T{}
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}
