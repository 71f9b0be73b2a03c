// Package video wraps the external live video provider API. Streams are
// created and queried against the provider; recorded broadcasts surface as
// saved videos after the stream ends.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/observability"
)

// Provider is the interface the rest of the application uses to talk to the
// video backend. Tests substitute a mock.
type Provider interface {
	CreateLiveStream(ctx context.Context, name string) (*LiveStream, error)
	GetLiveStream(ctx context.Context, liveStreamID string) (*LiveStream, error)
	GetSavedVideo(ctx context.Context, liveStreamID string) (*SavedVideo, error)
	Token(ctx context.Context) (string, error)
}

// LiveStream is the provider's live stream resource. Raw keeps the verbatim
// payload so callers can persist the provider's full response.
type LiveStream struct {
	LiveStreamID string `json:"liveStreamId"`
	Name         string `json:"name"`
	StreamKey    string `json:"streamKey"`
	Broadcasting bool   `json:"broadcasting"`
	Assets       struct {
		HLS       string `json:"hls"`
		Iframe    string `json:"iframe"`
		Player    string `json:"player"`
		VideoID   string `json:"videoId"`
		Thumbnail string `json:"thumbnail"`
	} `json:"assets"`
	Raw json.RawMessage `json:"-"`
}

// SavedVideo is the recorded asset of an ended broadcast.
type SavedVideo struct {
	VideoID string          `json:"videoId"`
	Title   string          `json:"title"`
	Assets  json.RawMessage `json:"assets"`
	Raw     json.RawMessage `json:"-"`
}

// Client is the HTTP implementation of Provider. It caches the provider's
// bearer token and refreshes it under a mutex so concurrent requests do not
// stampede the auth endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient returns a Client for the given provider base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Token returns a valid provider access token, refreshing the cached one if
// it has expired.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	body, _ := json.Marshal(map[string]string{"apiKey": c.apiKey})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/api-key", bytes.NewReader(body))
	if err != nil {
		return "", models.NewUpstreamError("failed to build token request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.ObserveProviderCall("auth", statusLabel(resp, err), start, err)
	if err != nil {
		return "", models.NewUpstreamError("video provider auth request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", upstreamStatusError("auth", resp)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", models.NewUpstreamError("failed to decode token response", err)
	}
	if payload.ExpiresIn <= 0 {
		payload.ExpiresIn = 3600
	}

	c.token = payload.AccessToken
	// Refresh one minute early so in-flight requests never carry a token that
	// expires mid-call.
	c.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

// CreateLiveStream creates a recorded live stream with the given name.
func (c *Client) CreateLiveStream(ctx context.Context, name string) (*LiveStream, error) {
	body, _ := json.Marshal(map[string]any{"name": name, "record": true})
	raw, err := c.do(ctx, http.MethodPost, "/live-streams", body, "create-live-stream", http.StatusCreated, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var ls LiveStream
	if err := json.Unmarshal(raw, &ls); err != nil {
		return nil, models.NewUpstreamError("failed to decode live stream response", err)
	}
	ls.Raw = raw
	return &ls, nil
}

// GetLiveStream fetches the provider's current view of a live stream.
func (c *Client) GetLiveStream(ctx context.Context, liveStreamID string) (*LiveStream, error) {
	raw, err := c.do(ctx, http.MethodGet, "/live-streams/"+liveStreamID, nil, "get-live-stream", http.StatusOK)
	if err != nil {
		return nil, err
	}
	var ls LiveStream
	if err := json.Unmarshal(raw, &ls); err != nil {
		return nil, models.NewUpstreamError("failed to decode live stream response", err)
	}
	ls.Raw = raw
	return &ls, nil
}

// GetSavedVideo resolves the recorded video of an ended broadcast. The
// provider links the recording through the live stream's assets.
func (c *Client) GetSavedVideo(ctx context.Context, liveStreamID string) (*SavedVideo, error) {
	ls, err := c.GetLiveStream(ctx, liveStreamID)
	if err != nil {
		return nil, err
	}
	if ls.Assets.VideoID == "" {
		return nil, models.NewNotFoundError("saved video", liveStreamID)
	}

	raw, err := c.do(ctx, http.MethodGet, "/videos/"+ls.Assets.VideoID, nil, "get-video", http.StatusOK)
	if err != nil {
		return nil, err
	}
	var video SavedVideo
	if err := json.Unmarshal(raw, &video); err != nil {
		return nil, models.NewUpstreamError("failed to decode video response", err)
	}
	video.Raw = raw
	return &video, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, endpoint string, okStatuses ...int) (json.RawMessage, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, models.NewUpstreamError("failed to build provider request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	ctx, span := observability.GetTraceLayer().TraceProviderCall(ctx, method, endpoint)
	defer span.End()
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.ObserveProviderCall(endpoint, statusLabel(resp, err), start, err)
	if err != nil {
		span.RecordError(err)
		return nil, models.NewUpstreamError(fmt.Sprintf("video provider %s request failed", endpoint), err)
	}
	defer resp.Body.Close()

	for _, ok := range okStatuses {
		if resp.StatusCode == ok {
			return io.ReadAll(resp.Body)
		}
	}
	upstreamErr := upstreamStatusError(endpoint, resp)
	span.RecordError(upstreamErr)
	return nil, upstreamErr
}

func upstreamStatusError(endpoint string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return models.NewUpstreamError(
		fmt.Sprintf("video provider %s returned %d: %s", endpoint, resp.StatusCode, string(b)),
		nil,
	)
}

func statusLabel(resp *http.Response, err error) string {
	if err != nil || resp == nil {
		return "error"
	}
	return strconv.Itoa(resp.StatusCode)
}
