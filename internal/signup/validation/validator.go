// Package validation checks a sign-up form snapshot before submission.
//
// Rules run in a fixed order: required fields, email shape, password match,
// password length, CNIC shape, document presence. Validate stops at the first
// failing rule; ValidateAll reports every violation.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"onboard/internal/signup/models"
)

// MinPasswordLength is the shortest accepted password, counted in UTF-16 code
// units so mobile clients and the server agree on the same input.
const MinPasswordLength = 6

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	cnicPattern  = regexp.MustCompile(`^\d{5}-\d{7}-\d{1}$`)
)

// Mode selects between stopping at the first violation and collecting all.
type Mode int

const (
	ModeFirst Mode = iota
	ModeAll
)

// Run validates with the given mode.
func Run(mode Mode, fields models.FormFields, doc models.DocumentAsset) models.ValidationErrors {
	if mode == ModeAll {
		return ValidateAll(fields, doc)
	}
	return Validate(fields, doc)
}

// Validate returns at most one error: the first rule that fails.
func Validate(fields models.FormFields, doc models.DocumentAsset) models.ValidationErrors {
	c := newChecker(fields, doc)
	for _, rule := range c.rules() {
		if errs := rule(); len(errs) > 0 {
			return errs[:1]
		}
	}
	return nil
}

// ValidateAll returns every violation in rule order. Format rules are skipped
// for fields already reported as missing.
func ValidateAll(fields models.FormFields, doc models.DocumentAsset) models.ValidationErrors {
	c := newChecker(fields, doc)
	var out models.ValidationErrors
	for _, rule := range c.rules() {
		out = append(out, rule()...)
	}
	return out
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsCNIC reports whether s has the 5-7-1 digit grouping.
func IsCNIC(s string) bool {
	return cnicPattern.MatchString(strings.TrimSpace(s))
}

type rule func() models.ValidationErrors

type checker struct {
	name, email, cnic, address string
	password, confirm          string
	doc                        models.DocumentAsset
	missing                    map[models.Field]bool
}

func newChecker(f models.FormFields, doc models.DocumentAsset) *checker {
	return &checker{
		name:     strings.TrimSpace(f.Name),
		email:    strings.TrimSpace(f.Email),
		cnic:     strings.TrimSpace(f.CNIC),
		address:  strings.TrimSpace(f.Address),
		password: f.Password,
		confirm:  f.ConfirmPassword,
		doc:      doc,
		missing:  map[models.Field]bool{},
	}
}

func (c *checker) rules() []rule {
	return []rule{c.required, c.emailShape, c.passwordMatch, c.passwordLength, c.cnicShape, c.document}
}

func (c *checker) required() models.ValidationErrors {
	var out models.ValidationErrors
	for _, f := range []struct {
		field models.Field
		value string
	}{
		{models.FieldName, c.name},
		{models.FieldEmail, c.email},
		{models.FieldPassword, c.password},
		{models.FieldCNIC, c.cnic},
		{models.FieldAddress, c.address},
	} {
		if f.value == "" {
			c.missing[f.field] = true
			out = append(out, models.ValidationError{
				Code:    models.ValidationMissingInformation,
				Field:   f.field,
				Title:   "Missing Information",
				Message: "All fields are required.",
			})
		}
	}
	return out
}

func (c *checker) emailShape() models.ValidationErrors {
	if c.missing[models.FieldEmail] || emailPattern.MatchString(c.email) {
		return nil
	}
	return one(models.ValidationInvalidEmail, models.FieldEmail,
		"Invalid Email", "Please enter a valid email address.")
}

func (c *checker) passwordMatch() models.ValidationErrors {
	if c.password == c.confirm {
		return nil
	}
	return one(models.ValidationPasswordMismatch, models.FieldConfirmPassword,
		"Password Mismatch", "Passwords do not match.")
}

func (c *checker) passwordLength() models.ValidationErrors {
	if c.missing[models.FieldPassword] || passwordUnits(c.password) >= MinPasswordLength {
		return nil
	}
	return one(models.ValidationWeakPassword, models.FieldPassword,
		"Weak Password", "Password must be at least 6 characters long.")
}

func passwordUnits(p string) int {
	return len(utf16.Encode([]rune(p)))
}

func (c *checker) cnicShape() models.ValidationErrors {
	if c.missing[models.FieldCNIC] || cnicPattern.MatchString(c.cnic) {
		return nil
	}
	return one(models.ValidationInvalidCNIC, models.FieldCNIC,
		"Invalid CNIC", "Please use format: 12345-1234567-1")
}

func (c *checker) document() models.ValidationErrors {
	if c.doc.HasURI() {
		return nil
	}
	return one(models.ValidationMissingDocument, "",
		"Missing CNIC Image", "Please upload a picture of your CNIC.")
}

func one(code models.ValidationCode, field models.Field, title, msg string) models.ValidationErrors {
	return models.ValidationErrors{{Code: code, Field: field, Title: title, Message: msg}}
}
