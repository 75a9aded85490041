package neynar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nonomnouns/clankpad/internal/config"
)

// Cast is a message in the user's cast history, as returned by the hub API.
type Cast struct {
	Hash string   `json:"hash"`
	Data CastData `json:"data"`
}

type CastData struct {
	FID         int64       `json:"fid"`
	CastAddBody CastAddBody `json:"castAddBody"`
}

type CastAddBody struct {
	Text string `json:"text"`
}

// Reply is a direct reply inside a cast conversation.
type Reply struct {
	Author struct {
		FID int64 `json:"fid"`
	} `json:"author"`
	Text string `json:"text"`
}

// Client talks to the Neynar hub (v1) and Farcaster (v2) read APIs.
type Client struct {
	apiKey     string
	hubBaseURL string
	apiBaseURL string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:     cfg.NeynarAPIKey,
		hubBaseURL: strings.TrimRight(cfg.NeynarHubURL, "/"),
		apiBaseURL: strings.TrimRight(cfg.NeynarAPIURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// CastsByFID fetches a bounded page of the user's most recent casts.
func (c *Client) CastsByFID(ctx context.Context, fid int64, pageSize int) ([]Cast, error) {
	url := fmt.Sprintf("%s/castsByFid?fid=%d&pageSize=%d&reverse=true", c.hubBaseURL, fid, pageSize)

	var out struct {
		Messages []Cast `json:"messages"`
	}
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("casts by fid: %w", err)
	}
	return out.Messages, nil
}

// CastConversation fetches the reply thread of a cast, bounded by replyDepth,
// and returns the direct replies.
func (c *Client) CastConversation(ctx context.Context, castHash string, replyDepth int) ([]Reply, error) {
	url := fmt.Sprintf("%s/v2/farcaster/cast/conversation?identifier=%s&type=hash&reply_depth=%d",
		c.apiBaseURL, castHash, replyDepth)

	var out struct {
		Conversation struct {
			Cast struct {
				DirectReplies []Reply `json:"direct_replies"`
			} `json:"cast"`
		} `json:"conversation"`
	}
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("cast conversation: %w", err)
	}
	return out.Conversation.Cast.DirectReplies, nil
}

// ValidAppKey reports whether keyHex is a registered app key for the fid.
// Used by webhook signature verification.
func (c *Client) ValidAppKey(ctx context.Context, fid int64, keyHex string) (bool, error) {
	url := fmt.Sprintf("%s/onChainSignersByFid?fid=%d", c.hubBaseURL, fid)

	var out struct {
		Events []struct {
			SignerEventBody struct {
				Key string `json:"key"`
			} `json:"signerEventBody"`
		} `json:"events"`
	}
	if err := c.getJSON(ctx, url, &out); err != nil {
		return false, fmt.Errorf("signers by fid: %w", err)
	}
	for _, ev := range out.Events {
		if strings.EqualFold(ev.SignerEventBody.Key, keyHex) {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
