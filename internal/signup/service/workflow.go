package service

import (
	"sync"
	"time"

	"onboard/internal/signup/document"
	"onboard/internal/signup/form"
	"onboard/internal/signup/location"
	"onboard/internal/signup/models"
	"onboard/pkg/domain"
)

// Workflow is one sign-up attempt. The form, acquirer and picker guard their
// own state; mu covers the fields declared below it.
type Workflow struct {
	ID        domain.WorkflowID
	Role      models.Role
	CreatedAt time.Time

	form     *form.Store
	acquirer *location.Acquirer
	picker   *document.Picker

	mu         sync.Mutex
	lastActive time.Time
	submitting bool
	lastPick   *document.Outcome
	// content holds the uploaded bytes of the asset selected as contentURI.
	content    []byte
	contentURI string
}

// View is a read-only snapshot of a workflow for clients. Password fields are
// never included.
type View struct {
	ID           string                `json:"workflow_id"`
	Role         models.Role           `json:"role"`
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	CNIC         string                `json:"cnic"`
	Address      string                `json:"address"`
	Visibility   form.Visibility       `json:"visibility"`
	Locating     bool                  `json:"locating"`
	Picking      bool                  `json:"picking"`
	Submitting   bool                  `json:"submitting"`
	LocationStep location.State        `json:"location_state"`
	Location     *models.Coordinates   `json:"location,omitempty"`
	LastLocation *LocationView         `json:"last_location,omitempty"`
	Document     *models.DocumentAsset `json:"document,omitempty"`
	Uploaded     bool                  `json:"document_uploaded"`
	LastDocument *DocumentView         `json:"last_document,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	LastActive   time.Time             `json:"last_active"`
}

// LocationView renders a location.Outcome.
type LocationView struct {
	State    location.State      `json:"state"`
	Reason   location.Reason     `json:"reason,omitempty"`
	Message  string              `json:"message,omitempty"`
	Address  string              `json:"address,omitempty"`
	Location *models.Coordinates `json:"location,omitempty"`
}

// DocumentView renders a document.Outcome.
type DocumentView struct {
	Status   document.Status       `json:"status"`
	Message  string                `json:"message,omitempty"`
	Document *models.DocumentAsset `json:"document,omitempty"`
}

// NewLocationView converts an acquisition outcome for clients.
func NewLocationView(out location.Outcome) LocationView {
	v := LocationView{
		State:   out.State,
		Reason:  out.Reason,
		Message: out.Message,
		Address: out.Address,
	}
	if c, ok := out.Location.Coordinates(); ok {
		v.Location = &c
	}
	return v
}

// NewDocumentView converts a selection outcome for clients.
func NewDocumentView(out document.Outcome) DocumentView {
	v := DocumentView{Status: out.Status, Message: out.Message}
	if !out.Document.IsZero() {
		d := out.Document
		v.Document = &d
	}
	return v
}

func (w *Workflow) touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if now.After(w.lastActive) {
		w.lastActive = now
	}
}

// idleSince reports whether the workflow has been untouched since cutoff and
// has nothing in flight.
func (w *Workflow) idleSince(cutoff time.Time) bool {
	if w.acquirer.Busy() || w.picker.Busy() {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.submitting && w.lastActive.Before(cutoff)
}

func (w *Workflow) beginSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting {
		return false
	}
	w.submitting = true
	return true
}

func (w *Workflow) endSubmit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
}

func (w *Workflow) recordPick(out document.Outcome) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastPick = &out
}

func (w *Workflow) attachContent(uri string, content []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.content = content
	w.contentURI = uri
}

// contentFor returns the uploaded bytes if they belong to the asset at uri.
func (w *Workflow) contentFor(uri string) []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.content == nil || w.contentURI != uri {
		return nil
	}
	return w.content
}

func (w *Workflow) view() View {
	fields := w.form.Snapshot()
	v := View{
		ID:           w.ID.String(),
		Role:         w.Role,
		Name:         fields.Name,
		Email:        fields.Email,
		CNIC:         fields.CNIC,
		Address:      fields.Address,
		Visibility:   w.form.Visibility(),
		Locating:     w.acquirer.Busy(),
		Picking:      w.picker.Busy(),
		LocationStep: w.acquirer.State(),
		CreatedAt:    w.CreatedAt,
	}
	if c, ok := w.acquirer.Result().Coordinates(); ok {
		v.Location = &c
	}
	if out, ok := w.acquirer.LastOutcome(); ok {
		lv := NewLocationView(out)
		v.LastLocation = &lv
	}
	doc := w.picker.Selected()
	if !doc.IsZero() {
		v.Document = &doc
		v.Uploaded = w.contentFor(doc.URI) != nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	v.Submitting = w.submitting
	v.LastActive = w.lastActive
	if w.lastPick != nil {
		dv := NewDocumentView(*w.lastPick)
		v.LastDocument = &dv
	}
	return v
}
