package form

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"onboard/internal/signup/models"
)

func TestSetFieldStoresValueVerbatim(t *testing.T) {
	s := NewStore()
	s.SetField(models.FieldName, "  Ayesha Khan ")
	s.SetField(models.FieldCNIC, "not-a-cnic")

	assert.Equal(t, "  Ayesha Khan ", s.Field(models.FieldName))
	assert.Equal(t, "not-a-cnic", s.Snapshot().CNIC, "no validation at write time")
}

func TestSetFieldOverwrites(t *testing.T) {
	s := NewStore()
	s.SetField(models.FieldAddress, "typed by hand")
	s.SetField(models.FieldAddress, "Gulberg III, Lahore")

	assert.Equal(t, "Gulberg III, Lahore", s.Field(models.FieldAddress))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.SetField(models.FieldEmail, "a@b.co")
	snap := s.Snapshot()
	s.SetField(models.FieldEmail, "changed@b.co")

	assert.Equal(t, "a@b.co", snap.Email)
}

func TestToggleVisibilityIsIndependent(t *testing.T) {
	s := NewStore()
	s.SetField(models.FieldPassword, "secret1")

	assert.True(t, s.ToggleVisibility(models.TogglePassword))
	assert.False(t, s.Visibility().ConfirmPassword)
	assert.False(t, s.ToggleVisibility(models.TogglePassword))
	assert.True(t, s.ToggleVisibility(models.ToggleConfirmPassword))

	assert.Equal(t, "secret1", s.Field(models.FieldPassword), "toggles never touch data")
}

func TestConcurrentWrites(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetField(models.FieldName, "x")
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, "x", s.Field(models.FieldName))
}
