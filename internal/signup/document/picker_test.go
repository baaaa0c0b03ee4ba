package document

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"onboard/internal/signup/models"
	"onboard/internal/signup/ports"
	"onboard/internal/signup/ports/mocks"
	dErrors "onboard/pkg/domain-errors"
)

var front = models.DocumentAsset{URI: "file:///storage/DCIM/cnic_front.jpg", MIMEType: "image/jpeg", FileName: "cnic_front.jpg"}

func TestPick_Selected(t *testing.T) {
	ctrl := gomock.NewController(t)
	media := mocks.NewMockMediaPicker(ctrl)
	media.EXPECT().Pick(gomock.Any(), DefaultPickerOptions).
		Return(ports.PickResult{Assets: []models.DocumentAsset{front}}, nil)

	p := New()
	out, err := p.Pick(context.Background(), media)
	require.NoError(t, err)

	assert.Equal(t, StatusSelected, out.Status)
	assert.Empty(t, out.Message)
	assert.Equal(t, front, out.Document)
	assert.Equal(t, front, p.Selected())
}

func TestPick_ReplacesWholesale(t *testing.T) {
	ctrl := gomock.NewController(t)
	media := mocks.NewMockMediaPicker(ctrl)
	back := models.DocumentAsset{URI: "content://media/42"}
	gomock.InOrder(
		media.EXPECT().Pick(gomock.Any(), gomock.Any()).Return(ports.PickResult{Assets: []models.DocumentAsset{front}}, nil),
		media.EXPECT().Pick(gomock.Any(), gomock.Any()).Return(ports.PickResult{Assets: []models.DocumentAsset{back}}, nil),
	)

	p := New()
	_, err := p.Pick(context.Background(), media)
	require.NoError(t, err)
	_, err = p.Pick(context.Background(), media)
	require.NoError(t, err)

	assert.Equal(t, back, p.Selected(), "no field of the previous asset may survive")
}

func TestPick_CancelledLeavesAssetUnchanged(t *testing.T) {
	t.Run("absent stays absent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		media := mocks.NewMockMediaPicker(ctrl)
		media.EXPECT().Pick(gomock.Any(), gomock.Any()).Return(ports.PickResult{Cancelled: true}, nil)

		p := New()
		out, err := p.Pick(context.Background(), media)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, out.Status)
		assert.Empty(t, out.Message)
		assert.True(t, p.Selected().IsZero())
	})

	t.Run("present stays present", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		media := mocks.NewMockMediaPicker(ctrl)
		gomock.InOrder(
			media.EXPECT().Pick(gomock.Any(), gomock.Any()).Return(ports.PickResult{Assets: []models.DocumentAsset{front}}, nil),
			media.EXPECT().Pick(gomock.Any(), gomock.Any()).Return(ports.PickResult{Cancelled: true}, nil),
		)

		p := New()
		_, err := p.Pick(context.Background(), media)
		require.NoError(t, err)
		out, err := p.Pick(context.Background(), media)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, out.Status)
		assert.Equal(t, front, out.Document)
		assert.Equal(t, front, p.Selected())
	})
}

func TestPick_Failures(t *testing.T) {
	tests := []struct {
		name    string
		result  ports.PickResult
		err     error
		message string
	}{
		{"picker error message", ports.PickResult{ErrorMessage: "Photo library access denied"}, nil, "Photo library access denied"},
		{"capability error", ports.PickResult{}, errors.New("bridge closed"), "Could not select image."},
		{"no assets", ports.PickResult{}, nil, "No image was selected or an unexpected error occurred."},
		{"asset without uri", ports.PickResult{Assets: []models.DocumentAsset{{MIMEType: "image/png"}}}, nil, "Selected image does not have a valid URI."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			media := mocks.NewMockMediaPicker(ctrl)
			media.EXPECT().Pick(gomock.Any(), gomock.Any()).Return(tt.result, tt.err)

			p := New()
			out, err := p.Pick(context.Background(), media)
			require.NoError(t, err)
			assert.Equal(t, StatusFailed, out.Status)
			assert.Equal(t, tt.message, out.Message)
			assert.True(t, p.Selected().IsZero())
			assert.False(t, p.Busy())
		})
	}
}

func TestPick_BusyIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	media := mocks.NewMockMediaPicker(ctrl)
	entered := make(chan struct{})
	release := make(chan struct{})
	media.EXPECT().Pick(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, ports.PickerOptions) (ports.PickResult, error) {
			close(entered)
			<-release
			return ports.PickResult{Assets: []models.DocumentAsset{front}}, nil
		}).Times(1)

	p := New()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Pick(context.Background(), media)
	}()
	<-entered

	_, err := p.Pick(context.Background(), media)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBusy))

	close(release)
	<-done
	assert.Equal(t, front, p.Selected())
}

func TestWithQuality(t *testing.T) {
	ctrl := gomock.NewController(t)
	media := mocks.NewMockMediaPicker(ctrl)
	want := DefaultPickerOptions
	want.Quality = 0.5
	media.EXPECT().Pick(gomock.Any(), want).Return(ports.PickResult{Cancelled: true}, nil)

	p := New(WithQuality(0.5), WithQuality(7))
	_, err := p.Pick(context.Background(), media)
	require.NoError(t, err)
}
