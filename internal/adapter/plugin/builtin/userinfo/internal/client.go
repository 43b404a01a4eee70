package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin/userinfo/entity"
	"github.com/kiosk404/mahiro-adapter/pkg/utils/json"
)

// infoPath is the companion bot's favorability endpoint.
const infoPath = "/get_info"

// Fetch error taxonomy. Callers decide how to degrade; the client makes a
// single attempt and never retries.
var (
	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("user info request timed out")

	// ErrUnreachable indicates the connection could not be established
	// (host down, DNS failure).
	ErrUnreachable = errors.New("user info API unreachable")

	// ErrMalformedResponse indicates a non-success status or a payload
	// missing the required fields.
	ErrMalformedResponse = errors.New("malformed user info response")
)

// Client fetches user favorability records from the companion bot's API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL with the given
// per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// infoResponse is the expected JSON body of GET /get_info.
// Favorability is a pointer so a missing field can be told apart from zero.
type infoResponse struct {
	Favorability *float64 `json:"favorability"`
	Attitude     string   `json:"attitude"`
}

// Fetch issues a single GET {base}/get_info?user_id=...&display_name=...
// and returns a populated UserRecord stamped with the current time.
//
// Failures map onto the sentinel errors above; use errors.Is to classify.
func (c *Client) Fetch(ctx context.Context, userID, displayName string) (*entity.UserRecord, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	if displayName != "" {
		q.Set("display_name", displayName)
	}
	reqURL := c.baseURL + infoPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrMalformedResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrMalformedResponse, resp.StatusCode)
	}

	var info infoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrMalformedResponse, err)
	}
	if info.Favorability == nil || info.Attitude == "" {
		return nil, fmt.Errorf("%w: missing favorability or attitude field", ErrMalformedResponse)
	}

	return &entity.UserRecord{
		UserID:       userID,
		DisplayName:  displayName,
		Favorability: *info.Favorability,
		Attitude:     info.Attitude,
		FetchedAt:    time.Now(),
	}, nil
}

// classifyTransportError maps a transport-level failure onto the fetch
// error taxonomy.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
