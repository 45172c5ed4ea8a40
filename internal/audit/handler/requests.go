package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "github.com/YuriTheCoder/AuditCenter-API/pkg/domain-errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WebhookEventRequest is the payload external systems post. Field names are
// part of the public webhook contract.
type WebhookEventRequest struct {
	SystemName string         `json:"systemName" validate:"required"`
	UserEmail  string         `json:"userEmail" validate:"required"`
	Action     string         `json:"action" validate:"required"`
	Metadata   map[string]any `json:"metadata" validate:"required"`
}

// Normalize trims the identifying fields. UserEmail is only trimmed, never
// lowercased: attribution matching is case-sensitive as stored.
func (r *WebhookEventRequest) Normalize() {
	r.SystemName = strings.TrimSpace(r.SystemName)
	r.UserEmail = strings.TrimSpace(r.UserEmail)
	r.Action = strings.TrimSpace(r.Action)
}

// Validate reports per-field messages for anything missing.
func (r *WebhookEventRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return asValidationError(err)
	}
	return nil
}

// MetadataJSON serializes the opaque metadata object to text for storage.
func (r *WebhookEventRequest) MetadataJSON() (string, error) {
	raw, err := json.Marshal(r.Metadata)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest, "metadata is not serializable")
	}
	return string(raw), nil
}

func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldName(fe)] = messageFor(fe)
	}
	return dErrors.New(dErrors.CodeValidation, "invalid request").WithDetails(details)
}

func fieldName(fe validator.FieldError) string {
	// Field() is the Go name; the wire name is its lower-camel form.
	name := fe.Field()
	return strings.ToLower(name[:1]) + name[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short"
	default:
		return "is invalid"
	}
}
