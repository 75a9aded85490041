package neynar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nonomnouns/clankpad/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(hubURL, apiURL string) *Client {
	return NewClient(&config.Config{
		NeynarAPIKey: "test-key",
		NeynarHubURL: hubURL,
		NeynarAPIURL: apiURL,
	})
}

func TestCastsByFID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/castsByFid", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("fid"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "true", r.URL.Query().Get("reverse"))
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[
			{"hash":"0xabc","data":{"fid":42,"castAddBody":{"text":"Hey @clankpad\nTicker: CLNK"}}}
		]}`))
	}))
	defer srv.Close()

	casts, err := testClient(srv.URL, srv.URL).CastsByFID(context.Background(), 42, 10)

	require.NoError(t, err)
	require.Len(t, casts, 1)
	assert.Equal(t, "0xabc", casts[0].Hash)
	assert.Equal(t, int64(42), casts[0].Data.FID)
	assert.Contains(t, casts[0].Data.CastAddBody.Text, "Ticker: CLNK")
}

func TestCastConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/farcaster/cast/conversation", r.URL.Path)
		assert.Equal(t, "0xabc", r.URL.Query().Get("identifier"))
		assert.Equal(t, "hash", r.URL.Query().Get("type"))
		assert.Equal(t, "5", r.URL.Query().Get("reply_depth"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conversation":{"cast":{"direct_replies":[
			{"author":{"fid":912361},"text":"Token CLNK has been created 🎉"}
		]}}}`))
	}))
	defer srv.Close()

	replies, err := testClient(srv.URL, srv.URL).CastConversation(context.Background(), "0xabc", 5)

	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, int64(912361), replies[0].Author.FID)
}

func TestValidAppKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/onChainSignersByFid", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"events":[{"signerEventBody":{"key":"0xABCDEF"}}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)

	valid, err := c.ValidAppKey(context.Background(), 42, "0xabcdef")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = c.ValidAppKey(context.Background(), 42, "0x123456")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestGetJSON_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, srv.URL).CastsByFID(context.Background(), 42, 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
