package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

type UserRole string

const (
	UserRoleAdmin       UserRole = "admin"
	UserRoleOrganizer   UserRole = "organizer"
	UserRoleParticipant UserRole = "participant"
	UserRolePublic      UserRole = "public"
)

var UserRoles = []UserRole{UserRoleAdmin, UserRoleOrganizer, UserRoleParticipant, UserRolePublic}

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleOrganizer, UserRoleParticipant, UserRolePublic:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusAtivo   UserStatus = "ativo"
	UserStatusInativo UserStatus = "inativo"
)

var UserStatuses = []UserStatus{UserStatusAtivo, UserStatusInativo}

func (s UserStatus) Valid() bool {
	return s == UserStatusAtivo || s == UserStatusInativo
}

type User struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   UserRole   `json:"role"`
	Sector string     `json:"sector"`
	Avatar string     `json:"avatar,omitempty"`
	Status UserStatus `json:"status"`
}

func (u User) Draft() UserDraft {
	return UserDraft{
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Sector: u.Sector,
		Avatar: u.Avatar,
		Status: u.Status,
	}
}

type UserDraft struct {
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   UserRole   `json:"role"`
	Sector string     `json:"sector"`
	Avatar string     `json:"avatar,omitempty"`
	Status UserStatus `json:"status"`
}

func (d UserDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidUser)
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return fmt.Errorf("%w: email %q", ErrInvalidUser, d.Email)
	}
	if !d.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, d.Role)
	}
	if !d.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidUser, d.Status)
	}
	if strings.TrimSpace(d.Sector) == "" {
		return fmt.Errorf("%w: sector is required", ErrInvalidUser)
	}
	return nil
}

// Sectors is the institutional sector catalogue.
var Sectors = []string{
	"Presidência",
	"Secretaria Executiva",
	"Assessoria Jurídica",
	"Gabinete da Presidência",
	"Diretoria Administrativa",
	"Diretoria Técnica",
	"Assessoria de Comunicação",
	"Recursos Humanos",
	"Tecnologia da Informação",
	"Planejamento Estratégico",
}

func (d UserDraft) User(id string) User {
	return User{
		ID:     id,
		Name:   d.Name,
		Email:  d.Email,
		Role:   d.Role,
		Sector: d.Sector,
		Avatar: d.Avatar,
		Status: d.Status,
	}
}
