package tokenstatus

import (
	"context"
	"testing"

	"github.com/nonomnouns/clankpad/internal/domain"
	"github.com/nonomnouns/clankpad/internal/infrastructure/neynar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockRequestStore struct{ mock.Mock }

func (m *mockRequestStore) GetByTickerFID(ctx context.Context, ticker string, fid int64) (*domain.TokenRequest, error) {
	args := m.Called(ctx, ticker, fid)
	if r, _ := args.Get(0).(*domain.TokenRequest); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRequestStore) SetTerminalStatus(ctx context.Context, ticker string, fid int64, status, message string) error {
	return m.Called(ctx, ticker, fid, status, message).Error(0)
}

type mockSocial struct{ mock.Mock }

func (m *mockSocial) CastsByFID(ctx context.Context, fid int64, pageSize int) ([]neynar.Cast, error) {
	args := m.Called(ctx, fid, pageSize)
	return args.Get(0).([]neynar.Cast), args.Error(1)
}
func (m *mockSocial) CastConversation(ctx context.Context, castHash string, replyDepth int) ([]neynar.Reply, error) {
	args := m.Called(ctx, castHash, replyDepth)
	return args.Get(0).([]neynar.Reply), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Deliver(ctx context.Context, fid int64, p domain.NotificationPayload, skipRateLimit bool) error {
	return m.Called(ctx, fid, p, skipRateLimit).Error(0)
}

// --- helpers ---

const testBotFID = int64(912361)

func requestCast(ticker string) neynar.Cast {
	c := neynar.Cast{Hash: "0xabc"}
	c.Data.FID = 42
	c.Data.CastAddBody.Text = "Hey @clankpad create this one!\nTicker: " + ticker + "\nName: Clank Coin"
	return c
}

func botReply(text string) neynar.Reply {
	var r neynar.Reply
	r.Author.FID = testBotFID
	r.Text = text
	return r
}

// --- tests ---

func TestPoll_TerminalStatus_ShortCircuits(t *testing.T) {
	msg := "Token CLNK has been created 🎉"
	store := &mockRequestStore{}
	store.On("GetByTickerFID", mock.Anything, "CLNK", int64(42)).
		Return(&domain.TokenRequest{Ticker: "CLNK", FID: 42, Status: domain.StatusSuccess, Message: &msg}, nil)

	social := &mockSocial{}
	svc := NewService(store, social, &mockNotifier{}, testBotFID, "https://clankpad.example")

	status, err := svc.Poll(context.Background(), "CLNK", 42)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, status.Status)
	social.AssertNotCalled(t, "CastsByFID", mock.Anything, mock.Anything, mock.Anything)
}

func TestPoll_UnknownRequest_IsPending(t *testing.T) {
	store := &mockRequestStore{}
	store.On("GetByTickerFID", mock.Anything, "CLNK", int64(42)).Return(nil, domain.ErrNotFound)

	svc := NewService(store, &mockSocial{}, &mockNotifier{}, testBotFID, "https://clankpad.example")
	status, err := svc.Poll(context.Background(), "CLNK", 42)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, status.Status)
}

func TestPoll_NoMatchingCast_StaysPending(t *testing.T) {
	store := &mockRequestStore{}
	store.On("GetByTickerFID", mock.Anything, "CLNK", int64(42)).
		Return(&domain.TokenRequest{Ticker: "CLNK", FID: 42, Status: domain.StatusPending}, nil)

	other := neynar.Cast{Hash: "0xdef"}
	other.Data.CastAddBody.Text = "gm everyone"

	social := &mockSocial{}
	social.On("CastsByFID", mock.Anything, int64(42), 10).Return([]neynar.Cast{other}, nil)

	svc := NewService(store, social, &mockNotifier{}, testBotFID, "https://clankpad.example")
	status, err := svc.Poll(context.Background(), "CLNK", 42)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, status.Status)
	social.AssertNotCalled(t, "CastConversation", mock.Anything, mock.Anything, mock.Anything)
}

func TestPoll_NoBotReply_StaysPending(t *testing.T) {
	store := &mockRequestStore{}
	store.On("GetByTickerFID", mock.Anything, "CLNK", int64(42)).
		Return(&domain.TokenRequest{Ticker: "CLNK", FID: 42, Status: domain.StatusPending}, nil)

	var stranger neynar.Reply
	stranger.Author.FID = 777
	stranger.Text = "nice ticker"

	social := &mockSocial{}
	social.On("CastsByFID", mock.Anything, int64(42), 10).Return([]neynar.Cast{requestCast("CLNK")}, nil)
	social.On("CastConversation", mock.Anything, "0xabc", 5).Return([]neynar.Reply{stranger}, nil)

	svc := NewService(store, social, &mockNotifier{}, testBotFID, "https://clankpad.example")
	status, err := svc.Poll(context.Background(), "CLNK", 42)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, status.Status)
}

func TestPoll_BotSuccessReply_PersistsAndNotifies(t *testing.T) {
	reply := botReply("Your token $CLNK has been created and added to the competition!")

	store := &mockRequestStore{}
	store.On("GetByTickerFID", mock.Anything, "CLNK", int64(42)).
		Return(&domain.TokenRequest{Ticker: "CLNK", FID: 42, Status: domain.StatusPending}, nil)
	store.On("SetTerminalStatus", mock.Anything, "CLNK", int64(42), domain.StatusSuccess, reply.Text).Return(nil)

	social := &mockSocial{}
	social.On("CastsByFID", mock.Anything, int64(42), 10).Return([]neynar.Cast{requestCast("CLNK")}, nil)
	social.On("CastConversation", mock.Anything, "0xabc", 5).Return([]neynar.Reply{reply}, nil)

	notifier := &mockNotifier{}
	notifier.On("Deliver", mock.Anything, int64(42), mock.MatchedBy(func(p domain.NotificationPayload) bool {
		return p.NotificationID == "token-created:CLNK"
	}), false).Return(nil)

	svc := NewService(store, social, notifier, testBotFID, "https://clankpad.example")
	status, err := svc.Poll(context.Background(), "CLNK", 42)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, status.Status)
	require.NotNil(t, status.Message)
	assert.Equal(t, reply.Text, *status.Message)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestPoll_BotFailureReply_RecordsMessage(t *testing.T) {
	reply := botReply("Sorry, the ticker CLNK is already taken.")

	store := &mockRequestStore{}
	store.On("GetByTickerFID", mock.Anything, "CLNK", int64(42)).
		Return(&domain.TokenRequest{Ticker: "CLNK", FID: 42, Status: domain.StatusPending}, nil)
	store.On("SetTerminalStatus", mock.Anything, "CLNK", int64(42), domain.StatusFailed, reply.Text).Return(nil)

	social := &mockSocial{}
	social.On("CastsByFID", mock.Anything, int64(42), 10).Return([]neynar.Cast{requestCast("CLNK")}, nil)
	social.On("CastConversation", mock.Anything, "0xabc", 5).Return([]neynar.Reply{reply}, nil)

	notifier := &mockNotifier{}
	notifier.On("Deliver", mock.Anything, int64(42), mock.MatchedBy(func(p domain.NotificationPayload) bool {
		return p.NotificationID == "token-failed:CLNK"
	}), false).Return(nil)

	svc := NewService(store, social, notifier, testBotFID, "https://clankpad.example")
	status, err := svc.Poll(context.Background(), "CLNK", 42)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, status.Status)
	require.NotNil(t, status.Message)
	assert.Equal(t, reply.Text, *status.Message)
}

func TestPoll_NotificationFailure_DoesNotFailPoll(t *testing.T) {
	reply := botReply("Token CLNK has been created 🎉")

	store := &mockRequestStore{}
	store.On("GetByTickerFID", mock.Anything, "CLNK", int64(42)).
		Return(&domain.TokenRequest{Ticker: "CLNK", FID: 42, Status: domain.StatusPending}, nil)
	store.On("SetTerminalStatus", mock.Anything, "CLNK", int64(42), domain.StatusSuccess, reply.Text).Return(nil)

	social := &mockSocial{}
	social.On("CastsByFID", mock.Anything, int64(42), 10).Return([]neynar.Cast{requestCast("CLNK")}, nil)
	social.On("CastConversation", mock.Anything, "0xabc", 5).Return([]neynar.Reply{reply}, nil)

	notifier := &mockNotifier{}
	notifier.On("Deliver", mock.Anything, int64(42), mock.Anything, false).Return(domain.ErrNotFound)

	svc := NewService(store, social, notifier, testBotFID, "https://clankpad.example")
	status, err := svc.Poll(context.Background(), "CLNK", 42)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, status.Status)
}
