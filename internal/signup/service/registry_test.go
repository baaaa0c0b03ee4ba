package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/pkg/domain"
	"onboard/pkg/platform/sentinel"
	"onboard/pkg/requestcontext"
)

func TestRegistry_InFlightWorkflowIsNotEvicted(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := New(nil, WithIdleTTL(time.Minute))
	w, err := svc.Start(requestcontext.WithTime(context.Background(), now), "")
	require.NoError(t, err)

	require.True(t, w.beginSubmit())
	assert.Empty(t, svc.workflows.removeExpiredAt(now.Add(time.Hour)))

	w.endSubmit()
	assert.Equal(t, []domain.WorkflowID{w.ID}, svc.workflows.removeExpiredAt(now.Add(time.Hour)))
}

func TestRegistry_Get(t *testing.T) {
	r := newRegistry(time.Minute)
	_, err := r.get(domain.NewWorkflowID(), time.Now())
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestRegistry_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	svc := New(nil, WithIdleTTL(0))
	w, err := svc.Start(requestcontext.WithTime(context.Background(), now), "")
	require.NoError(t, err)

	assert.Zero(t, svc.RemoveExpiredAt(context.Background(), now.Add(24*time.Hour)))
	_, err = svc.workflows.get(w.ID, now.Add(24*time.Hour))
	assert.NoError(t, err)
}
