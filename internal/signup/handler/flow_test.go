package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"onboard/internal/platform/middleware"
	"onboard/internal/signup/adapters/httptransport"
	"onboard/internal/signup/models"
	"onboard/internal/signup/ports/mocks"
	"onboard/internal/signup/service"
	"onboard/internal/signup/upstream"
	"onboard/pkg/testutil"
)

func newFlowRouter(t *testing.T) (chi.Router, *mocks.MockGeocoder, *mocks.MockTransport) {
	t.Helper()
	ctrl := gomock.NewController(t)
	geocoder := mocks.NewMockGeocoder(ctrl)
	transport := mocks.NewMockTransport(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(geocoder, service.WithTransport(transport), service.WithLogger(logger))

	r := chi.NewRouter()
	New(svc, logger, nil, 5*time.Second).Register(r)
	return r, geocoder, transport
}

func startWorkflow(t *testing.T, r chi.Router, role string) string {
	t.Helper()
	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/signup/workflows", StartRequest{Role: role}))
	require.Equal(t, http.StatusCreated, rr.Code)
	return "/signup/workflows/" + testutil.UnmarshalResponse[StartResponse](t, rr).WorkflowID
}

func setField(t *testing.T, r chi.Router, base, field, value string) {
	t.Helper()
	body := testutil.MustMarshal(t, FieldRequest{Value: &value})
	rr := testutil.DoRequest(r, testutil.NewRequestWithBody(t, http.MethodPut, base+"/fields/"+field, body))
	require.Equal(t, http.StatusNoContent, rr.Code, "set %s", field)
}

func value(p models.SubmissionPayload, name string) string {
	v, _ := p.Value(name)
	return v
}

func TestSignupFlow_SubmitsFromIOS(t *testing.T) {
	r, geocoder, transport := newFlowRouter(t)
	base := startWorkflow(t, r, "service_provider")

	geocoder.EXPECT().Reverse(gomock.Any(), models.Coordinates{Latitude: 31.5204, Longitude: 74.3587}).
		Return("Gulberg III, Lahore, Punjab, Pakistan", nil)
	rr := testutil.DoRequest(r, testutil.NewRequestWithBody(t, http.MethodPost, base+"/location",
		`{"permission":"granted","position":{"latitude":31.5204,"longitude":74.3587}}`))
	require.Equal(t, http.StatusOK, rr.Code)
	loc := testutil.UnmarshalResponse[service.LocationView](t, rr)
	assert.Equal(t, "Address updated:\nGulberg III, Lahore, Punjab, Pakistan", loc.Message)

	rr = testutil.DoRequest(r, testutil.NewRequestWithBody(t, http.MethodPost, base+"/document",
		`{"assets":[{"uri":"file:///var/mobile/cnic.jpg","type":"image/jpeg","file_name":"cnic.jpg"}]}`))
	require.Equal(t, http.StatusOK, rr.Code)

	setField(t, r, base, "name", "Ayesha Khan")
	setField(t, r, base, "email", "ayesha@example.pk")
	setField(t, r, base, "password", "secret1 ")
	setField(t, r, base, "confirmPassword", "secret1 ")
	setField(t, r, base, "cnic", "35202-1234567-1")

	rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, base))
	require.Equal(t, http.StatusOK, rr.Code)
	view := testutil.UnmarshalResponse[service.View](t, rr)
	assert.Equal(t, "Gulberg III, Lahore, Punjab, Pakistan", view.Address, "geocoded address lands in the form")
	assert.NotContains(t, rr.Body.String(), "secret1")

	upload := testutil.NewRequestWithBody(t, http.MethodPut, base+"/document/content", jpegBytes)
	upload.Header.Set("Content-Type", "image/jpeg")
	require.Equal(t, http.StatusNoContent, testutil.DoRequest(r, upload).Code)

	var sent models.SubmissionPayload
	transport.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p models.SubmissionPayload) error {
			sent = p
			return nil
		})
	req := testutil.NewRequest(t, http.MethodPost, base+"/submit")
	req.Header.Set(middleware.HeaderClientPlatform, "ios")
	rr = testutil.DoRequest(r, req)
	require.Equal(t, http.StatusAccepted, rr.Code)

	assert.Equal(t, "service_provider", value(sent, models.PartRole))
	assert.Equal(t, "secret1 ", value(sent, models.PartPassword), "password is sent untrimmed")
	assert.Equal(t, "31.5204", value(sent, models.PartLatitude))
	assert.Equal(t, "74.3587", value(sent, models.PartLongitude))
	assert.Equal(t, "/var/mobile/cnic.jpg", sent.Document().URI)
	assert.Equal(t, "image/jpeg", sent.Document().Type)
	assert.Equal(t, len(jpegBytes), sent.ContentLength())

	rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, base))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestSignupFlow_ValidationBlocksSubmit(t *testing.T) {
	r, _, _ := newFlowRouter(t)
	base := startWorkflow(t, r, "")

	setField(t, r, base, "name", "Ayesha Khan")
	setField(t, r, base, "email", "ayesha@example")

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, base+"/submit"))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	resp := testutil.UnmarshalResponse[ValidationFailedResponse](t, rr)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, models.ValidationMissingInformation, resp.Errors[0].Code)

	rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, base+"/validate?mode=all"))
	require.Equal(t, http.StatusOK, rr.Code)
	all := testutil.UnmarshalResponse[ValidateResponse](t, rr)
	assert.False(t, all.Valid)
	assert.Greater(t, len(all.Errors), 1)
}

func TestSignupFlow_GeocodeFailureKeepsFix(t *testing.T) {
	r, geocoder, _ := newFlowRouter(t)
	base := startWorkflow(t, r, "")

	geocoder.EXPECT().Reverse(gomock.Any(), gomock.Any()).
		Return("", upstream.NewError(upstream.ErrorOutage, "nominatim", "HTTP error! status: 503", nil))
	rr := testutil.DoRequest(r, testutil.NewRequestWithBody(t, http.MethodPost, base+"/location",
		`{"permission":"granted","position":{"latitude":24.86,"longitude":67.01}}`))
	require.Equal(t, http.StatusOK, rr.Code)
	loc := testutil.UnmarshalResponse[service.LocationView](t, rr)
	assert.Contains(t, loc.Message, "Failed to fetch address: ")
	require.NotNil(t, loc.Location)

	rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, base))
	view := testutil.UnmarshalResponse[service.View](t, rr)
	require.NotNil(t, view.Location)
	assert.Empty(t, view.Address)
}

func TestSignupFlow_PermissionDenied(t *testing.T) {
	r, _, _ := newFlowRouter(t)
	base := startWorkflow(t, r, "")

	rr := testutil.DoRequest(r, testutil.NewRequestWithBody(t, http.MethodPost, base+"/location", `{"permission":"denied"}`))
	require.Equal(t, http.StatusOK, rr.Code)
	loc := testutil.UnmarshalResponse[service.LocationView](t, rr)
	assert.Equal(t, "Location permission is required.", loc.Message)
	assert.Nil(t, loc.Location)
}

type received struct {
	document []byte
	filename string
	cnic     string
}

// newUpstreamFlow wires the real multipart transport to a recording sign-up
// endpoint.
func newUpstreamFlow(t *testing.T) (chi.Router, <-chan received, *atomic.Int32) {
	t.Helper()
	got := make(chan received, 1)
	var hits atomic.Int32
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		f, hdr, err := req.FormFile("document")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		got <- received{document: b, filename: hdr.Filename, cnic: req.FormValue("cnic")}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(upstreamSrv.Close)

	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(mocks.NewMockGeocoder(ctrl),
		service.WithLogger(logger),
		service.WithTransport(httptransport.New(upstreamSrv.URL, time.Second, httptransport.WithLogger(logger))),
	)
	r := chi.NewRouter()
	New(svc, logger, nil, 5*time.Second).Register(r)
	return r, got, &hits
}

func fillValidForm(t *testing.T, r chi.Router, base string) {
	t.Helper()
	setField(t, r, base, "name", "Bilal Ahmed")
	setField(t, r, base, "email", "bilal@example.pk")
	setField(t, r, base, "password", "secret1")
	setField(t, r, base, "confirm_password", "secret1")
	setField(t, r, base, "cnic", "42101-7654321-3")
	setField(t, r, base, "address", "Clifton, Karachi")
}

func pickAsset(t *testing.T, r chi.Router, base, uri string) {
	t.Helper()
	body := testutil.MustMarshal(t, DocumentRequest{Assets: []AssetReport{{URI: uri, Type: "image/jpeg"}}})
	rr := testutil.DoRequest(r, testutil.NewRequestWithBody(t, http.MethodPost, base+"/document", body))
	require.Equal(t, http.StatusOK, rr.Code)
}

func uploadContent(t *testing.T, r chi.Router, base string, content []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, base+"/document/content", bytes.NewReader(content))
	req.Header.Set("Content-Type", "image/jpeg")
	require.Equal(t, http.StatusNoContent, testutil.DoRequest(r, req).Code)
}

func TestSignupFlow_AndroidContentURI(t *testing.T) {
	r, got, _ := newUpstreamFlow(t)
	base := startWorkflow(t, r, "")
	fillValidForm(t, r, base)
	pickAsset(t, r, base, "content://media/external/images/media/42")
	uploadContent(t, r, base, []byte(jpegBytes))

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, base))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, testutil.UnmarshalResponse[service.View](t, rr).Uploaded)

	req := testutil.NewRequest(t, http.MethodPost, base+"/submit")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36")
	rr = testutil.DoRequest(r, req)
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	sent := <-got
	assert.Equal(t, []byte(jpegBytes), sent.document)
	assert.Equal(t, "42101-7654321-3", sent.cnic)
	assert.True(t, strings.HasPrefix(sent.filename, "cnic_"), "fallback name for unnamed assets")
}

func TestSignupFlow_ServerPathsAreNeverRead(t *testing.T) {
	secret := filepath.Join(t.TempDir(), "server-secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("SERVER-SECRET-42"), 0o600))

	var internalHits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		internalHits.Add(1)
	}))
	defer internal.Close()

	for _, uri := range []string{"/etc/passwd", "file:///etc/passwd", secret, "file://" + secret, internal.URL + "/internal/keys"} {
		t.Run(uri, func(t *testing.T) {
			r, got, hits := newUpstreamFlow(t)
			base := startWorkflow(t, r, "")
			fillValidForm(t, r, base)
			pickAsset(t, r, base, uri)

			rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, base+"/submit"))
			testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
			assert.Zero(t, hits.Load(), "nothing reaches the sign-up endpoint without an upload")

			uploadContent(t, r, base, []byte(jpegBytes))
			rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, base+"/submit"))
			require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
			sent := <-got
			assert.Equal(t, []byte(jpegBytes), sent.document)
			assert.NotContains(t, string(sent.document), "SERVER-SECRET")
		})
	}
	assert.Zero(t, internalHits.Load())
}
