package domain

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"
)

type EventType string

const (
	EventTypeReuniao              EventType = "reuniao"
	EventTypeAudienciaPublica     EventType = "audiencia_publica"
	EventTypeSessaoPlenaria       EventType = "sessao_plenaria"
	EventTypePalestra             EventType = "palestra"
	EventTypeWorkshop             EventType = "workshop"
	EventTypeSeminario            EventType = "seminario"
	EventTypeCongresso            EventType = "congresso"
	EventTypeCursoCapacitacao     EventType = "curso_capacitacao"
	EventTypeMesaRedonda          EventType = "mesa_redonda"
	EventTypeDebate               EventType = "debate"
	EventTypeConferencia          EventType = "conferencia"
	EventTypeEncontroTematico     EventType = "encontro_tematico"
	EventTypeAssembleia           EventType = "assembleia"
	EventTypeVisitaTecnica        EventType = "visita_tecnica"
	EventTypeCerimoniaOficial     EventType = "cerimonia_oficial"
	EventTypeLancamentoProjeto    EventType = "lancamento_projeto"
	EventTypeColetivaImprensa     EventType = "coletiva_imprensa"
	EventTypeAtividadeCultural    EventType = "atividade_cultural"
	EventTypeAtividadeComunitaria EventType = "atividade_comunitaria"
	EventTypeOutros               EventType = "outros"
)

// EventTypes lists every event type in catalogue order.
var EventTypes = []EventType{
	EventTypeReuniao, EventTypeAudienciaPublica, EventTypeSessaoPlenaria, EventTypePalestra,
	EventTypeWorkshop, EventTypeSeminario, EventTypeCongresso, EventTypeCursoCapacitacao,
	EventTypeMesaRedonda, EventTypeDebate, EventTypeConferencia, EventTypeEncontroTematico,
	EventTypeAssembleia, EventTypeVisitaTecnica, EventTypeCerimoniaOficial, EventTypeLancamentoProjeto,
	EventTypeColetivaImprensa, EventTypeAtividadeCultural, EventTypeAtividadeComunitaria, EventTypeOutros,
}

var eventTypeLabels = map[EventType]string{
	EventTypeReuniao:              "Reunião",
	EventTypeAudienciaPublica:     "Audiência Pública",
	EventTypeSessaoPlenaria:       "Sessão Plenária",
	EventTypePalestra:             "Palestra",
	EventTypeWorkshop:             "Workshop",
	EventTypeSeminario:            "Seminário",
	EventTypeCongresso:            "Congresso",
	EventTypeCursoCapacitacao:     "Curso/Capacitação",
	EventTypeMesaRedonda:          "Mesa-Redonda",
	EventTypeDebate:               "Debate",
	EventTypeConferencia:          "Conferência",
	EventTypeEncontroTematico:     "Encontro Temático",
	EventTypeAssembleia:           "Assembleia",
	EventTypeVisitaTecnica:        "Visita Técnica",
	EventTypeCerimoniaOficial:     "Cerimônia Oficial",
	EventTypeLancamentoProjeto:    "Lançamento de Projeto",
	EventTypeColetivaImprensa:     "Coletiva de Imprensa",
	EventTypeAtividadeCultural:    "Atividade Cultural",
	EventTypeAtividadeComunitaria: "Atividade Comunitária",
	EventTypeOutros:               "Outros",
}

func (t EventType) Valid() bool {
	_, ok := eventTypeLabels[t]
	return ok
}

func (t EventType) Label() string {
	if label, ok := eventTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

type Modality string

const (
	ModalityPresencial Modality = "presencial"
	ModalityVirtual    Modality = "virtual"
	ModalityHibrido    Modality = "hibrido"
)

var Modalities = []Modality{ModalityPresencial, ModalityVirtual, ModalityHibrido}

func (m Modality) Valid() bool {
	switch m {
	case ModalityPresencial, ModalityVirtual, ModalityHibrido:
		return true
	}
	return false
}

type Location string

const (
	LocationAuditorio             Location = "auditorio"
	LocationPlenarinho            Location = "plenarinho"
	LocationPresidencia           Location = "presidencia"
	LocationGabinete              Location = "gabinete"
	LocationEstacionamentoInterno Location = "estacionamento_interno"
	LocationEstacionamentoExterno Location = "estacionamento_externo"
	LocationEstacionamentoAmbos   Location = "estacionamento_ambos"
	LocationOutros                Location = "outros"
)

var Locations = []Location{
	LocationAuditorio, LocationPlenarinho, LocationPresidencia, LocationGabinete,
	LocationEstacionamentoInterno, LocationEstacionamentoExterno, LocationEstacionamentoAmbos, LocationOutros,
}

var locationLabels = map[Location]string{
	LocationAuditorio:             "Auditório",
	LocationPlenarinho:            "Plenarinho",
	LocationPresidencia:           "Presidência",
	LocationGabinete:              "Gabinete",
	LocationEstacionamentoInterno: "Estacionamento Interno",
	LocationEstacionamentoExterno: "Estacionamento Externo",
	LocationEstacionamentoAmbos:   "Estacionamento (Ambos)",
	LocationOutros:                "Outros",
}

func (l Location) Valid() bool {
	_, ok := locationLabels[l]
	return ok
}

func (l Location) Label() string {
	if label, ok := locationLabels[l]; ok {
		return label
	}
	return string(l)
}

type EventStatus string

const (
	EventStatusRascunho    EventStatus = "rascunho"
	EventStatusAgendado    EventStatus = "agendado"
	EventStatusEmAndamento EventStatus = "em_andamento"
	EventStatusConcluido   EventStatus = "concluido"
	EventStatusCancelado   EventStatus = "cancelado"
)

var EventStatuses = []EventStatus{
	EventStatusRascunho, EventStatusAgendado, EventStatusEmAndamento, EventStatusConcluido, EventStatusCancelado,
}

func (s EventStatus) Valid() bool {
	for _, candidate := range EventStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

func (s EventStatus) Label() string {
	switch s {
	case EventStatusRascunho:
		return "Rascunho"
	case EventStatusAgendado:
		return "Agendado"
	case EventStatusEmAndamento:
		return "Em Andamento"
	case EventStatusConcluido:
		return "Concluído"
	case EventStatusCancelado:
		return "Cancelado"
	}
	return string(s)
}

type ParticipantRole string

const (
	ParticipantRolePalestrante   ParticipantRole = "palestrante"
	ParticipantRoleAutoridade    ParticipantRole = "autoridade"
	ParticipantRoleServidorApoio ParticipantRole = "servidor_apoio"
	ParticipantRoleConvidado     ParticipantRole = "convidado"
)

var ParticipantRoles = []ParticipantRole{
	ParticipantRolePalestrante,
	ParticipantRoleAutoridade,
	ParticipantRoleServidorApoio,
	ParticipantRoleConvidado,
}

func (r ParticipantRole) Valid() bool {
	switch r {
	case ParticipantRolePalestrante, ParticipantRoleAutoridade, ParticipantRoleServidorApoio, ParticipantRoleConvidado:
		return true
	}
	return false
}

type Participant struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone,omitempty"`
	Role        ParticipantRole `json:"role"`
	Confirmed   bool            `json:"confirmed"`
	CheckedIn   bool            `json:"checked_in"`
	CheckedInAt *time.Time      `json:"checked_in_at,omitempty"`
}

// Document is metadata only; the referenced file is never stored.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy string    `json:"uploaded_by"`
}

// Change is one field-level edit recorded on an event. Entries are only ever appended.
type Change struct {
	ID        string    `json:"id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
	Reason    string    `json:"reason,omitempty"`
}

type Event struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Type            EventType     `json:"type"`
	Modality        Modality      `json:"modality"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	Location        Location      `json:"location"`
	LocationDetails string        `json:"location_details,omitempty"`
	ResponsibleID   string        `json:"responsible_id"`
	Responsible     string        `json:"responsible"`
	Sector          string        `json:"sector"`
	Status          EventStatus   `json:"status"`
	Participants    []Participant `json:"participants"`
	Documents       []Document    `json:"documents"`
	IsPublic        bool          `json:"is_public"`
	MaxParticipants *int          `json:"max_participants,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Version         int64         `json:"version"`
	Changes         []Change      `json:"changes"`
}

// Clone returns a deep copy so callers never share embedded slices with a store.
func (e Event) Clone() Event {
	out := e
	out.Participants = cloneParticipants(e.Participants)
	out.Documents = slices.Clone(e.Documents)
	out.Changes = slices.Clone(e.Changes)
	if e.MaxParticipants != nil {
		v := *e.MaxParticipants
		out.MaxParticipants = &v
	}
	return out
}

func (e Event) Draft() EventDraft {
	c := e.Clone()
	return EventDraft{
		Title:           c.Title,
		Description:     c.Description,
		Type:            c.Type,
		Modality:        c.Modality,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		Location:        c.Location,
		LocationDetails: c.LocationDetails,
		ResponsibleID:   c.ResponsibleID,
		Responsible:     c.Responsible,
		Sector:          c.Sector,
		Status:          c.Status,
		Participants:    c.Participants,
		Documents:       c.Documents,
		IsPublic:        c.IsPublic,
		MaxParticipants: c.MaxParticipants,
	}
}

// EventDraft is the caller-supplied part of an Event: everything except the
// identifier, timestamps, version and change history.
type EventDraft struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Type            EventType     `json:"type"`
	Modality        Modality      `json:"modality"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	Location        Location      `json:"location"`
	LocationDetails string        `json:"location_details,omitempty"`
	ResponsibleID   string        `json:"responsible_id"`
	Responsible     string        `json:"responsible"`
	Sector          string        `json:"sector"`
	Status          EventStatus   `json:"status"`
	Participants    []Participant `json:"participants"`
	Documents       []Document    `json:"documents"`
	IsPublic        bool          `json:"is_public"`
	MaxParticipants *int          `json:"max_participants,omitempty"`
}

// Event materializes the draft as the first version of a new event.
func (d EventDraft) Event(id string, now time.Time) Event {
	e := Event{
		ID:              id,
		Title:           d.Title,
		Description:     d.Description,
		Type:            d.Type,
		Modality:        d.Modality,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		Location:        d.Location,
		LocationDetails: d.LocationDetails,
		ResponsibleID:   d.ResponsibleID,
		Responsible:     d.Responsible,
		Sector:          d.Sector,
		Status:          d.Status,
		Participants:    d.Participants,
		Documents:       d.Documents,
		IsPublic:        d.IsPublic,
		MaxParticipants: d.MaxParticipants,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         1,
	}
	e = e.Clone()
	if e.Participants == nil {
		e.Participants = []Participant{}
	}
	if e.Documents == nil {
		e.Documents = []Document{}
	}
	e.Changes = []Change{}
	return e
}

// Validate is applied at input boundaries. The store accepts drafts as given.
func (d EventDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, d.Type)
	}
	if !d.Modality.Valid() {
		return fmt.Errorf("%w: unknown modality %q", ErrInvalidEvent, d.Modality)
	}
	if !d.Location.Valid() {
		return fmt.Errorf("%w: unknown location %q", ErrInvalidEvent, d.Location)
	}
	if !d.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidEvent, d.Status)
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidEvent)
	}
	if d.EndDate.Before(d.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidEvent)
	}
	if strings.TrimSpace(d.Sector) == "" {
		return fmt.Errorf("%w: sector is required", ErrInvalidEvent)
	}
	if d.MaxParticipants != nil && *d.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max participants must be positive", ErrInvalidEvent)
	}
	for _, p := range d.Participants {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: participant name is required", ErrInvalidEvent)
		}
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return fmt.Errorf("%w: participant email %q", ErrInvalidEvent, p.Email)
		}
		if !p.Role.Valid() {
			return fmt.Errorf("%w: unknown participant role %q", ErrInvalidEvent, p.Role)
		}
	}
	return nil
}

func cloneParticipants(in []Participant) []Participant {
	if in == nil {
		return nil
	}
	out := make([]Participant, len(in))
	for i, p := range in {
		out[i] = p
		if p.CheckedInAt != nil {
			at := *p.CheckedInAt
			out[i].CheckedInAt = &at
		}
	}
	return out
}
