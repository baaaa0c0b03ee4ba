// Package models holds the sign-up workflow's data model.
//
// Values here are pure: no I/O, no context, no clocks. Time is passed in by
// callers.
package models

import (
	"strings"

	dErrors "onboard/pkg/domain-errors"
)

// Field names one text input of the sign-up form.
type Field string

const (
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirm_password"
	FieldCNIC            Field = "cnic"
	FieldAddress         Field = "address"
)

// AllFields lists the form fields in display order.
var AllFields = []Field{
	FieldName, FieldEmail, FieldPassword, FieldConfirmPassword, FieldCNIC, FieldAddress,
}

// ParseField maps an external field name to a Field. camelCase aliases used
// by mobile clients are accepted.
func ParseField(s string) (Field, error) {
	switch strings.TrimSpace(s) {
	case "name":
		return FieldName, nil
	case "email":
		return FieldEmail, nil
	case "password":
		return FieldPassword, nil
	case "confirm_password", "confirmPassword":
		return FieldConfirmPassword, nil
	case "cnic":
		return FieldCNIC, nil
	case "address":
		return FieldAddress, nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "unknown field: "+s)
}

// Role is the side of the marketplace the account signs up for.
type Role string

const (
	RoleHomeOwner       Role = "home_owner"
	RoleServiceProvider Role = "service_provider"
)

// ParseRole validates a role; an empty value selects RoleHomeOwner.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case "", RoleHomeOwner:
		return RoleHomeOwner, nil
	case RoleServiceProvider:
		return RoleServiceProvider, nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "unknown role: "+s)
}

// FormFields is a snapshot of every text input. Values are stored exactly as
// typed; trimming happens at validation and payload construction.
type FormFields struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	CNIC            string
	Address         string
}

// Get returns the value of f.
func (f FormFields) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	case FieldConfirmPassword:
		return f.ConfirmPassword
	case FieldCNIC:
		return f.CNIC
	case FieldAddress:
		return f.Address
	}
	return ""
}

// With returns a copy of f with field replaced by value.
func (f FormFields) With(field Field, value string) FormFields {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	case FieldConfirmPassword:
		f.ConfirmPassword = value
	case FieldCNIC:
		f.CNIC = value
	case FieldAddress:
		f.Address = value
	}
	return f
}

// Toggle names a cosmetic visibility flag.
type Toggle string

const (
	TogglePassword        Toggle = "password"
	ToggleConfirmPassword Toggle = "confirm_password"
)

// ParseToggle maps an external toggle name to a Toggle.
func ParseToggle(s string) (Toggle, error) {
	switch strings.TrimSpace(s) {
	case "password":
		return TogglePassword, nil
	case "confirm_password", "confirmPassword":
		return ToggleConfirmPassword, nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "unknown toggle: "+s)
}
