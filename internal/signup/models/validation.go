package models

import "strings"

// ValidationCode is the stable identifier of a failed rule.
type ValidationCode string

const (
	ValidationMissingInformation ValidationCode = "missing_information"
	ValidationInvalidEmail       ValidationCode = "invalid_email"
	ValidationPasswordMismatch   ValidationCode = "password_mismatch"
	ValidationWeakPassword       ValidationCode = "weak_password"
	ValidationInvalidCNIC        ValidationCode = "invalid_cnic"
	ValidationMissingDocument    ValidationCode = "missing_document"
)

// ValidationError is a user-correctable input problem. It is produced on
// demand and never stored.
type ValidationError struct {
	Code    ValidationCode `json:"code"`
	Field   Field          `json:"field,omitempty"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Title + ": " + e.Message
}

// ValidationErrors is an ordered list of violations.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// First returns the first violation, if any.
func (e ValidationErrors) First() (ValidationError, bool) {
	if len(e) == 0 {
		return ValidationError{}, false
	}
	return e[0], true
}
