// Package submission turns a validated form into the payload sent to the
// sign-up endpoint.
package submission

import (
	"context"
	"strings"

	"onboard/internal/signup/models"
	"onboard/internal/signup/validation"
	"onboard/pkg/requestcontext"
)

// Input is everything the assembler reads. It is a snapshot; the assembler
// never mutates workflow state.
type Input struct {
	Fields   models.FormFields
	Role     models.Role
	Location models.LocationResult
	Document models.DocumentAsset
}

// Assemble validates in and builds the payload. On validation failure no
// payload is produced and the first violation is returned.
//
// The request time from ctx names unnamed documents. Requests from iOS
// clients get the file:// scheme stripped from the document uri.
func Assemble(ctx context.Context, in Input) (models.SubmissionPayload, models.ValidationErrors) {
	if errs := validation.Validate(in.Fields, in.Document); len(errs) > 0 {
		return models.SubmissionPayload{}, errs
	}

	role := in.Role
	if role == "" {
		role = models.RoleHomeOwner
	}

	fields := []models.PayloadField{
		{Name: models.PartName, Value: strings.TrimSpace(in.Fields.Name)},
		{Name: models.PartEmail, Value: strings.TrimSpace(in.Fields.Email)},
		{Name: models.PartPassword, Value: in.Fields.Password},
		{Name: models.PartCNIC, Value: strings.TrimSpace(in.Fields.CNIC)},
		{Name: models.PartAddress, Value: strings.TrimSpace(in.Fields.Address)},
		{Name: models.PartRole, Value: string(role)},
	}
	if coords, ok := in.Location.Coordinates(); ok {
		fields = append(fields,
			models.PayloadField{Name: models.PartLatitude, Value: coords.LatitudeString()},
			models.PayloadField{Name: models.PartLongitude, Value: coords.LongitudeString()},
		)
	}

	doc := models.DocumentPart{
		FieldName: models.PartDocument,
		URI:       DocumentURI(in.Document.URI, requestcontext.ClientPlatform(ctx)),
		Type:      in.Document.TypeOrDefault(),
		Name:      in.Document.NameOrDefault(requestcontext.Now(ctx)),
	}
	return models.NewSubmissionPayload(fields, doc), nil
}

// DocumentURI rewrites uri for the platform's upload stack. On iOS only a
// leading file:// is dropped.
func DocumentURI(uri string, platform requestcontext.Platform) string {
	uri = strings.TrimSpace(uri)
	if platform == requestcontext.PlatformIOS {
		return strings.TrimPrefix(uri, "file://")
	}
	return uri
}
