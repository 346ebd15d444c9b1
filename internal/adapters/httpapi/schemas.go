package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

const (
	schemaLogin             = "login"
	schemaEventDraft        = "event_draft"
	schemaEvent             = "event"
	schemaUserDraft         = "user_draft"
	schemaUser              = "user"
	schemaNotificationPatch = "notification_patch"
)

// schemaSet holds the compiled request schemas. Enumerations are taken from
// the domain catalogues so the two cannot drift apart.
type schemaSet struct {
	compiled map[string]*santhosh.Schema
}

func newSchemaSet() (*schemaSet, error) {
	docs := requestSchemas()
	s := &schemaSet{compiled: make(map[string]*santhosh.Schema, len(docs))}
	for name, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode %s schema: %w", name, err)
		}
		compiled, err := compileSchema(name, raw)
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", name, err)
		}
		s.compiled[name] = compiled
	}
	return s, nil
}

// Validate checks raw JSON against the named schema. Returns
// *domain.ErrSchemaViolation on failure.
func (s *schemaSet) Validate(name string, raw []byte) error {
	sch, ok := s.compiled[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return &domain.ErrSchemaViolation{Errors: []string{"body is not valid json"}}
	}
	if err := sch.Validate(v); err != nil {
		var ve *santhosh.ValidationError
		if errors.As(err, &ve) {
			return &domain.ErrSchemaViolation{Errors: collectValidationErrors(ve)}
		}
		return &domain.ErrSchemaViolation{Errors: []string{err.Error()}}
	}
	return nil
}

func compileSchema(name string, raw []byte) (*santhosh.Schema, error) {
	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	compiler.AssertFormat = true
	url := name + ".json"
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

func collectValidationErrors(ve *santhosh.ValidationError) []string {
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, collectValidationErrors(cause)...)
	}
	if len(ve.Causes) == 0 {
		msgs = append(msgs, fmt.Sprintf("%s: %s", pointer(ve.InstanceLocation), ve.Message))
	}
	return msgs
}

func pointer(loc string) string {
	if loc == "" {
		return "/"
	}
	return loc
}

type object = map[string]any

func enum[T ~string](values []T) object {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return object{"type": "string", "enum": out}
}

func closed(required []string, props object) object {
	doc := object{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func withProps(base object, extra object) object {
	props := object{}
	for k, v := range base {
		props[k] = v
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

var (
	str      = object{"type": "string"}
	nonEmpty = object{"type": "string", "minLength": 1}
	dateTime = object{"type": "string", "format": "date-time"}
	boolean  = object{"type": "boolean"}
)

func requestSchemas() map[string]object {
	participant := closed([]string{"name", "email", "role"}, object{
		"id":            str,
		"name":          nonEmpty,
		"email":         object{"type": "string", "format": "email"},
		"phone":         str,
		"role":          enum(domain.ParticipantRoles),
		"confirmed":     boolean,
		"checked_in":    boolean,
		"checked_in_at": dateTime,
	})
	document := closed([]string{"name"}, object{
		"id":          str,
		"name":        nonEmpty,
		"type":        str,
		"size":        object{"type": "integer", "minimum": 0},
		"url":         str,
		"uploaded_at": dateTime,
		"uploaded_by": str,
	})
	change := closed(nil, object{
		"id":         str,
		"field":      str,
		"old_value":  str,
		"new_value":  str,
		"changed_by": str,
		"changed_at": dateTime,
		"reason":     str,
	})

	draftProps := object{
		"title":            nonEmpty,
		"description":      str,
		"type":             enum(domain.EventTypes),
		"modality":         enum(domain.Modalities),
		"start_date":       dateTime,
		"end_date":         dateTime,
		"location":         enum(domain.Locations),
		"location_details": str,
		"responsible_id":   str,
		"responsible":      str,
		"sector":           nonEmpty,
		"status":           enum(domain.EventStatuses),
		"participants":     object{"type": "array", "items": participant},
		"documents":        object{"type": "array", "items": document},
		"is_public":        boolean,
		"max_participants": object{"type": "integer", "minimum": 1},
	}
	draftRequired := []string{"title", "type", "modality", "start_date", "end_date", "location", "sector", "status"}

	userProps := object{
		"name":   nonEmpty,
		"email":  object{"type": "string", "format": "email"},
		"role":   enum(domain.UserRoles),
		"sector": nonEmpty,
		"avatar": str,
		"status": enum(domain.UserStatuses),
	}
	userRequired := []string{"name", "email", "role", "sector", "status"}

	return map[string]object{
		schemaLogin:      closed([]string{"email"}, object{"email": nonEmpty}),
		schemaEventDraft: closed(draftRequired, draftProps),
		schemaEvent: closed(draftRequired, withProps(draftProps, object{
			"id":         str,
			"created_at": dateTime,
			"updated_at": dateTime,
			"version":    object{"type": "integer"},
			"changes":    object{"type": "array", "items": change},
		})),
		schemaUserDraft: closed(userRequired, userProps),
		schemaUser:      closed(userRequired, withProps(userProps, object{"id": str})),
		schemaNotificationPatch: object{
			"type":                 "object",
			"additionalProperties": false,
			"minProperties":        1,
			"properties": object{
				"title":    str,
				"message":  str,
				"type":     enum(domain.NotificationKinds),
				"event_id": str,
				"read":     boolean,
			},
		},
	}
}
