package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/YuriTheCoder/AuditCenter-API/pkg/domain"
	dErrors "github.com/YuriTheCoder/AuditCenter-API/pkg/domain-errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
	Role     string `json:"role" validate:"required"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Role = strings.TrimSpace(strings.ToLower(r.Role))
}

func (r *RegisterRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return asValidationError(err)
	}
	if _, err := domain.ParseRole(r.Role); err != nil {
		return dErrors.New(dErrors.CodeValidation, "invalid request").
			WithDetails(map[string]string{"role": "must be admin or analyst"})
	}
	return nil
}

// ParsedRole returns the validated role. Call only after Validate.
func (r *RegisterRequest) ParsedRole() domain.Role {
	role, _ := domain.ParseRole(r.Role)
	return role
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
}

func (r *LoginRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return asValidationError(err)
	}
	return nil
}

func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = messageFor(fe)
	}
	return dErrors.New(dErrors.CodeValidation, "invalid request").WithDetails(details)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	default:
		return "is invalid"
	}
}
