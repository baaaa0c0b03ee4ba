package models

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "onboard/pkg/domain-errors"
)

func TestParseField(t *testing.T) {
	f, err := ParseField("confirmPassword")
	require.NoError(t, err)
	assert.Equal(t, FieldConfirmPassword, f)

	_, err = ParseField("phone")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleHomeOwner, r)

	r, err = ParseRole("service_provider")
	require.NoError(t, err)
	assert.Equal(t, RoleServiceProvider, r)

	_, err = ParseRole("admin")
	assert.Error(t, err)
}

func TestFormFieldsWithDoesNotAlias(t *testing.T) {
	original := FormFields{Name: "Ayesha"}
	updated := original.With(FieldAddress, "Lahore")

	assert.Empty(t, original.Address)
	assert.Equal(t, "Lahore", updated.Get(FieldAddress))
	assert.Equal(t, "Ayesha", updated.Get(FieldName))
}

func TestCoordinatesDecimalStrings(t *testing.T) {
	c := Coordinates{Latitude: 31.5, Longitude: 74.3}
	assert.Equal(t, "31.5", c.LatitudeString())
	assert.Equal(t, "74.3", c.LongitudeString())

	c = Coordinates{Latitude: -33.8688197, Longitude: 151.2092955}
	assert.Equal(t, "-33.8688197", c.LatitudeString())
	assert.Equal(t, "151.2092955", c.LongitudeString())
}

func TestLocationResultZeroIsAbsent(t *testing.T) {
	var l LocationResult
	_, ok := l.Coordinates()
	assert.False(t, ok)

	l = NewLocationResult(Coordinates{Latitude: 0, Longitude: 0})
	c, ok := l.Coordinates()
	assert.True(t, ok, "null island is still a fix")
	assert.Equal(t, Coordinates{}, c)
}

func TestDocumentDefaults(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	d := DocumentAsset{URI: "file:///tmp/cnic.png"}

	assert.Equal(t, "image/jpeg", d.TypeOrDefault())
	assert.Equal(t, "cnic_1700000000123.jpg", d.NameOrDefault(now))

	d = DocumentAsset{URI: "content://media/1", MIMEType: "image/png", FileName: "front.png"}
	assert.Equal(t, "image/png", d.TypeOrDefault())
	assert.Equal(t, "front.png", d.NameOrDefault(now))
}

func TestSubmissionPayloadIsImmutable(t *testing.T) {
	fields := []PayloadField{{Name: PartName, Value: "Ayesha"}}
	p := NewSubmissionPayload(fields, DocumentPart{FieldName: PartDocument})

	fields[0].Value = "changed"
	got := p.Fields()
	got[0].Value = "changed again"

	v, ok := p.Value(PartName)
	require.True(t, ok)
	assert.Equal(t, "Ayesha", v)
}

func TestSubmissionPayloadContent(t *testing.T) {
	p := NewSubmissionPayload(nil, DocumentPart{FieldName: PartDocument})
	assert.Zero(t, p.ContentLength())

	raw := []byte("\xff\xd8jpeg")
	withContent := p.WithContent(raw)
	raw[0] = 0

	assert.Zero(t, p.ContentLength(), "original payload untouched")
	assert.Equal(t, 6, withContent.ContentLength())
	got, err := io.ReadAll(withContent.Content())
	require.NoError(t, err)
	assert.Equal(t, []byte("\xff\xd8jpeg"), got)
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Code: ValidationInvalidEmail, Title: "Invalid Email", Message: "Please enter a valid email address."},
		{Code: ValidationWeakPassword, Title: "Weak Password", Message: "Password must be at least 6 characters long."},
	}
	assert.Equal(t,
		"Invalid Email: Please enter a valid email address.; Weak Password: Password must be at least 6 characters long.",
		errs.Error())
	first, ok := errs.First()
	require.True(t, ok)
	assert.Equal(t, ValidationInvalidEmail, first.Code)
}
