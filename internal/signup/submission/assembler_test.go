package submission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/internal/signup/models"
	"onboard/pkg/requestcontext"
)

func validInput() Input {
	return Input{
		Fields: models.FormFields{
			Name:            "  Ayesha Khan ",
			Email:           " ayesha@example.pk",
			Password:        " secret1",
			ConfirmPassword: " secret1",
			CNIC:            "12345-1234567-1 ",
			Address:         " Gulberg III, Lahore ",
		},
		Role:     models.RoleServiceProvider,
		Document: models.DocumentAsset{URI: "file:///var/mobile/cnic.heic", MIMEType: "image/heic", FileName: "cnic.heic"},
	}
}

func partNames(p models.SubmissionPayload) []string {
	var names []string
	for _, f := range p.Fields() {
		names = append(names, f.Name)
	}
	return names
}

func TestAssemble_TrimsTextAndKeepsPassword(t *testing.T) {
	p, errs := Assemble(context.Background(), validInput())
	require.Empty(t, errs)

	assert.Equal(t, []string{"name", "email", "password", "cnic", "address", "role"}, partNames(p))
	for name, want := range map[string]string{
		models.PartName:     "Ayesha Khan",
		models.PartEmail:    "ayesha@example.pk",
		models.PartPassword: " secret1",
		models.PartCNIC:     "12345-1234567-1",
		models.PartAddress:  "Gulberg III, Lahore",
		models.PartRole:     "service_provider",
	} {
		got, ok := p.Value(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := p.Value("confirm_password")
	assert.False(t, ok)
}

func TestAssemble_NoLocationNoCoordinates(t *testing.T) {
	p, errs := Assemble(context.Background(), validInput())
	require.Empty(t, errs)

	_, ok := p.Value(models.PartLatitude)
	assert.False(t, ok)
	_, ok = p.Value(models.PartLongitude)
	assert.False(t, ok)
}

func TestAssemble_LocationAsDecimalStrings(t *testing.T) {
	in := validInput()
	in.Location = models.NewLocationResult(models.Coordinates{Latitude: 31.5, Longitude: 74.3})

	p, errs := Assemble(context.Background(), in)
	require.Empty(t, errs)

	lat, ok := p.Value(models.PartLatitude)
	require.True(t, ok)
	assert.Equal(t, "31.5", lat)
	lon, ok := p.Value(models.PartLongitude)
	require.True(t, ok)
	assert.Equal(t, "74.3", lon)
}

func TestAssemble_DocumentPart(t *testing.T) {
	p, errs := Assemble(context.Background(), validInput())
	require.Empty(t, errs)

	assert.Equal(t, models.DocumentPart{
		FieldName: "document",
		URI:       "file:///var/mobile/cnic.heic",
		Type:      "image/heic",
		Name:      "cnic.heic",
	}, p.Document())
}

func TestAssemble_DocumentFallbacks(t *testing.T) {
	in := validInput()
	in.Document = models.DocumentAsset{URI: "content://media/external/images/9"}
	ctx := requestcontext.WithTime(context.Background(), time.UnixMilli(1718000000000))

	p, errs := Assemble(ctx, in)
	require.Empty(t, errs)

	assert.Equal(t, "image/jpeg", p.Document().Type)
	assert.Equal(t, "cnic_1718000000000.jpg", p.Document().Name)
}

func TestAssemble_IOSStripsFileScheme(t *testing.T) {
	ctx := requestcontext.WithClientPlatform(context.Background(), requestcontext.PlatformIOS)

	p, errs := Assemble(ctx, validInput())
	require.Empty(t, errs)
	assert.Equal(t, "/var/mobile/cnic.heic", p.Document().URI)
}

func TestAssemble_DefaultRole(t *testing.T) {
	in := validInput()
	in.Role = ""

	p, errs := Assemble(context.Background(), in)
	require.Empty(t, errs)
	role, _ := p.Value(models.PartRole)
	assert.Equal(t, "home_owner", role)
}

func TestAssemble_ValidationFailureProducesNothing(t *testing.T) {
	in := validInput()
	in.Fields.ConfirmPassword = "different"

	p, errs := Assemble(context.Background(), in)
	require.Len(t, errs, 1)
	assert.Equal(t, models.ValidationPasswordMismatch, errs[0].Code)
	assert.Empty(t, p.Fields())
	assert.Equal(t, models.DocumentPart{}, p.Document())
}

func TestDocumentURI(t *testing.T) {
	assert.Equal(t, "file:///a.jpg", DocumentURI("file:///a.jpg", requestcontext.PlatformAndroid))
	assert.Equal(t, "file:///a.jpg", DocumentURI("file:///a.jpg", requestcontext.PlatformUnknown))
	assert.Equal(t, "/a.jpg", DocumentURI("file:///a.jpg", requestcontext.PlatformIOS))
	assert.Equal(t, "ph://asset/1", DocumentURI("ph://asset/1", requestcontext.PlatformIOS))
}

func TestDocumentURI_StripsOnlyLeadingScheme(t *testing.T) {
	assert.Equal(t, "/var/mobile/file://copy.jpg",
		DocumentURI("file:///var/mobile/file://copy.jpg", requestcontext.PlatformIOS))
	assert.Equal(t, "ph://asset/file://1",
		DocumentURI("ph://asset/file://1", requestcontext.PlatformIOS))
}
