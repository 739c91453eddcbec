package dto

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// AdminLoginRequest payload.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *AdminLoginRequest) Validate() error {
	return validate.Struct(r)
}

// AgentLoginRequest payload.
type AgentLoginRequest struct {
	AgentID int64  `json:"agentId" validate:"required,gt=0"`
	PIN     string `json:"pin" validate:"required"`
}

func (r *AgentLoginRequest) Validate() error {
	return validate.Struct(r)
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
