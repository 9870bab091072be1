// Package httpapi implements the remote.Service boundary over the backend
// JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/planmark/planmark/internal/models"
	"github.com/planmark/planmark/internal/netx"
	"github.com/planmark/planmark/internal/remote"
)

const requestTimeout = 12 * time.Second

// Client talks to the backend HTTP API and maps its failures onto the
// remote error taxonomy.
type Client struct {
	baseURL     string
	httpc       *http.Client
	accessToken string
}

// NewClient returns a Client for the given base URL, e.g.
// "https://api.planmark.example".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
}

// SetAccessToken installs the bearer token sent with every request.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

func (c *Client) Close() error {
	c.httpc.CloseIdleConnections()
	return nil
}

// tokenExpired checks the bearer token's exp claim locally, without the
// signing key, so an expired session is reported before a doomed request
// leaves the device.
func (c *Client) tokenExpired() bool {
	if c.accessToken == "" {
		return false
	}
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(c.accessToken, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// do sends one JSON request and decodes the response into out (if non-nil).
// A nil body sends no payload; http.StatusNoContent leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.tokenExpired() {
		return remote.ErrAuthExpired
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// mapTransportError folds every failure to reach the server into
// ErrUnavailable; the caller's offline handling keys on it.
func (c *Client) mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", remote.ErrUnavailable, err)
}

func mapStatus(code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusUnauthorized:
		return remote.ErrAuthExpired
	case code == http.StatusForbidden:
		return remote.ErrForbidden
	case code == http.StatusServiceUnavailable, code == http.StatusBadGateway, code == http.StatusGatewayTimeout:
		return remote.ErrUnavailable
	default:
		return &remote.ServerError{Status: code}
	}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/v1/ping", nil, nil)
}

func (c *Client) CreateMarkup(ctx context.Context, req models.PendingMarkup) (models.Markup, error) {
	var w wireMarkup
	if err := c.do(ctx, http.MethodPost, "/api/v1/markups", req, &w); err != nil {
		return models.Markup{}, err
	}
	return w.toModel(), nil
}

func (c *Client) DeleteMarkup(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/markups/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) PublishMarkup(ctx context.Context, id int64) (models.Markup, error) {
	var w wireMarkup
	path := "/api/v1/markups/" + strconv.FormatInt(id, 10) + "/publish"
	if err := c.do(ctx, http.MethodPost, path, nil, &w); err != nil {
		return models.Markup{}, err
	}
	if w.ID == 0 {
		// acknowledged without a body
		return models.Markup{}, nil
	}
	return w.toModel(), nil
}

func (c *Client) FetchMarkups(ctx context.Context, drawingID, drawingFileID int64, f remote.MarkupFilters) ([]models.Markup, error) {
	q := url.Values{}
	if f.Page != 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.CreatorID != 0 {
		q.Set("creator_id", strconv.FormatInt(f.CreatorID, 10))
	}
	path := fmt.Sprintf("/api/v1/drawings/%d/files/%d/markups", drawingID, drawingFileID)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list []wireMarkup
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	out := make([]models.Markup, 0, len(list))
	for _, w := range list {
		out = append(out, w.toModel())
	}
	return out, nil
}

func (c *Client) SubmitRFIResponse(ctx context.Context, rfiID int64, content string) error {
	path := fmt.Sprintf("/api/v1/rfis/%d/responses", rfiID)
	return c.do(ctx, http.MethodPost, path, wireResponseSubmission{Content: content}, nil)
}

func (c *Client) ReviewRFIResponse(ctx context.Context, rfiID, responseID int64, status models.ResponseStatus, reason string) error {
	path := fmt.Sprintf("/api/v1/rfis/%d/responses/%d/review", rfiID, responseID)
	return c.do(ctx, http.MethodPost, path, wireReview{Status: status, Reason: reason}, nil)
}

func (c *Client) CloseRFI(ctx context.Context, rfiID int64) error {
	path := fmt.Sprintf("/api/v1/rfis/%d/close", rfiID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) FetchRFIs(ctx context.Context, projectID int64) ([]models.RFI, error) {
	path := fmt.Sprintf("/api/v1/projects/%d/rfis", projectID)
	var list []wireRFI
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	out := make([]models.RFI, 0, len(list))
	for _, w := range list {
		out = append(out, w.toModel())
	}
	return out, nil
}

// UploadFile asks the backend for a presigned storage URL, PUTs the bytes
// there and returns the descriptor the RFI creation payload references.
func (c *Client) UploadFile(ctx context.Context, data []byte, name string) (models.Attachment, error) {
	var presigned wirePresignResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/files/presign", wirePresign{Name: name}, &presigned); err != nil {
		return models.Attachment{}, err
	}
	if err := netx.UploadToPresignedURL(presigned.UploadURL, data); err != nil {
		var serr *netx.UploadStatusError
		if errors.As(err, &serr) {
			return models.Attachment{}, mapStatus(serr.Status)
		}
		return models.Attachment{}, fmt.Errorf("%w: %v", remote.ErrUnavailable, err)
	}
	return models.Attachment{URL: presigned.FileURL, Name: name, Type: presigned.Type}, nil
}

func (c *Client) CreateRFI(ctx context.Context, req remote.RFICreation) (models.RFI, error) {
	payload := wireRFICreation{
		ProjectID:       req.ProjectID,
		Title:           req.Title,
		Query:           req.Query,
		ManagerID:       req.ManagerID,
		AssignedUserIDs: req.AssignedUserIDs,
		ReturnDate:      req.ReturnDate,
		Attachments:     req.Attachments,
		DrawingIDs:      req.DrawingIDs,
	}
	var w wireRFI
	if err := c.do(ctx, http.MethodPost, "/api/v1/rfis", payload, &w); err != nil {
		return models.RFI{}, err
	}
	return w.toModel(), nil
}
