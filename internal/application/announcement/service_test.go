package announcement

import (
	"context"
	"errors"
	"testing"

	"github.com/nonomnouns/clankpad/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) List(ctx context.Context) ([]domain.Announcement, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Announcement), args.Error(1)
}
func (m *mockStore) GetLatest(ctx context.Context) (*domain.Announcement, error) {
	args := m.Called(ctx)
	if a, _ := args.Get(0).(*domain.Announcement); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMarkers struct{ mock.Mock }

func (m *mockMarkers) GetLastSeenAnnouncementID(ctx context.Context, fid int64) (int64, bool, error) {
	args := m.Called(ctx, fid)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}
func (m *mockMarkers) SetLastSeenAnnouncementID(ctx context.Context, fid, announcementID int64) error {
	return m.Called(ctx, fid, announcementID).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Deliver(ctx context.Context, fid int64, p domain.NotificationPayload, skipRateLimit bool) error {
	return m.Called(ctx, fid, p, skipRateLimit).Error(0)
}

// --- tests ---

func TestCheckAndNotify_NothingPublished(t *testing.T) {
	markers := &mockMarkers{}
	markers.On("GetLastSeenAnnouncementID", mock.Anything, int64(42)).Return(int64(0), false, nil)

	store := &mockStore{}
	store.On("GetLatest", mock.Anything).Return(nil, domain.ErrNotFound)

	svc := NewService(store, markers, &mockNotifier{}, "https://clankpad.example")
	result, err := svc.CheckAndNotify(context.Background(), 42)

	require.NoError(t, err)
	assert.Nil(t, result.LastSeenID)
	assert.Nil(t, result.Latest)
}

func TestCheckAndNotify_UpToDate_NoDelivery(t *testing.T) {
	markers := &mockMarkers{}
	markers.On("GetLastSeenAnnouncementID", mock.Anything, int64(42)).Return(int64(7), true, nil)

	store := &mockStore{}
	store.On("GetLatest", mock.Anything).Return(&domain.Announcement{ID: 7, Title: "v2 launch"}, nil)

	notifier := &mockNotifier{}
	svc := NewService(store, markers, notifier, "https://clankpad.example")
	result, err := svc.CheckAndNotify(context.Background(), 42)

	require.NoError(t, err)
	require.NotNil(t, result.LastSeenID)
	assert.Equal(t, int64(7), *result.LastSeenID)
	notifier.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckAndNotify_Behind_AdvancesMarkerOnDelivery(t *testing.T) {
	markers := &mockMarkers{}
	markers.On("GetLastSeenAnnouncementID", mock.Anything, int64(42)).Return(int64(6), true, nil)
	markers.On("SetLastSeenAnnouncementID", mock.Anything, int64(42), int64(8)).Return(nil)

	store := &mockStore{}
	store.On("GetLatest", mock.Anything).Return(&domain.Announcement{ID: 8, Title: "v2 launch", Text: "It is live"}, nil)

	notifier := &mockNotifier{}
	notifier.On("Deliver", mock.Anything, int64(42), mock.MatchedBy(func(p domain.NotificationPayload) bool {
		return p.NotificationID == "announcement:8" && p.Title == "v2 launch"
	}), false).Return(nil)

	svc := NewService(store, markers, notifier, "https://clankpad.example")
	result, err := svc.CheckAndNotify(context.Background(), 42)

	require.NoError(t, err)
	require.NotNil(t, result.Latest)
	assert.Equal(t, int64(8), result.Latest.ID)
	markers.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCheckAndNotify_NeverSeen_TreatedAsBehind(t *testing.T) {
	markers := &mockMarkers{}
	markers.On("GetLastSeenAnnouncementID", mock.Anything, int64(42)).Return(int64(0), false, nil)
	markers.On("SetLastSeenAnnouncementID", mock.Anything, int64(42), int64(1)).Return(nil)

	store := &mockStore{}
	store.On("GetLatest", mock.Anything).Return(&domain.Announcement{ID: 1, Title: "Hello"}, nil)

	notifier := &mockNotifier{}
	notifier.On("Deliver", mock.Anything, int64(42), mock.Anything, false).Return(nil)

	svc := NewService(store, markers, notifier, "https://clankpad.example")
	result, err := svc.CheckAndNotify(context.Background(), 42)

	require.NoError(t, err)
	assert.Nil(t, result.LastSeenID)
	markers.AssertExpectations(t)
}

func TestCheckAndNotify_RateLimited_KeepsMarker(t *testing.T) {
	markers := &mockMarkers{}
	markers.On("GetLastSeenAnnouncementID", mock.Anything, int64(42)).Return(int64(6), true, nil)

	store := &mockStore{}
	store.On("GetLatest", mock.Anything).Return(&domain.Announcement{ID: 8, Title: "v2 launch"}, nil)

	notifier := &mockNotifier{}
	notifier.On("Deliver", mock.Anything, int64(42), mock.Anything, false).Return(domain.ErrRateLimited)

	svc := NewService(store, markers, notifier, "https://clankpad.example")
	result, err := svc.CheckAndNotify(context.Background(), 42)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	require.NotNil(t, result)
	markers.AssertNotCalled(t, "SetLastSeenAnnouncementID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckAndNotify_Undeliverable_KeepsMarker(t *testing.T) {
	markers := &mockMarkers{}
	markers.On("GetLastSeenAnnouncementID", mock.Anything, int64(42)).Return(int64(6), true, nil)

	store := &mockStore{}
	store.On("GetLatest", mock.Anything).Return(&domain.Announcement{ID: 8, Title: "v2 launch"}, nil)

	notifier := &mockNotifier{}
	notifier.On("Deliver", mock.Anything, int64(42), mock.Anything, false).Return(domain.ErrNotFound)

	svc := NewService(store, markers, notifier, "https://clankpad.example")
	_, err := svc.CheckAndNotify(context.Background(), 42)

	require.NoError(t, err)
	markers.AssertNotCalled(t, "SetLastSeenAnnouncementID", mock.Anything, mock.Anything, mock.Anything)
}
