package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"tradeboard/models"
)

// DataPath is the collection endpoint of the trade API.
const DataPath = "/data"

// ErrRequestFailed covers every transport failure and non-2xx answer.
// Callers do not distinguish not-found, conflict or server errors.
var ErrRequestFailed = errors.New("trade api request failed")

// RequestError carries request details for logs; it always matches ErrRequestFailed.
type RequestError struct {
	Method string
	Path   string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

func (e *RequestError) Unwrap() error { return e.Err }

// Client issues one round trip per call against a fixed base URL. No retries.
type Client struct {
	rc *resty.Client
}

// New builds a client for baseURL; timeout bounds each request when positive.
func New(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return &Client{rc: rc}
}

// NewWithHTTPClient reuses hc as transport, e.g. an httptest server client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	rc := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc}
}

// List fetches the full collection.
func (c *Client) List(ctx context.Context) ([]models.TradeRecord, error) {
	resp, err := c.rc.R().SetContext(ctx).Get(DataPath)
	if err := check(http.MethodGet, DataPath, resp, err); err != nil {
		return nil, err
	}
	records := make([]models.TradeRecord, 0)
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, &RequestError{Method: http.MethodGet, Path: DataPath, Status: resp.StatusCode(), Err: fmt.Errorf("decode collection: %w", err)}
	}
	return records, nil
}

// Create submits a new record; the server assigns the id.
func (c *Client) Create(ctx context.Context, draft models.TradeRecord) error {
	draft.ID = 0
	resp, err := c.rc.R().SetContext(ctx).SetBody(draft).Post(DataPath)
	return check(http.MethodPost, DataPath, resp, err)
}

// Update replaces the record with the given id.
func (c *Client) Update(ctx context.Context, id int64, record models.TradeRecord) error {
	record.ID = id
	path := itemPath(id)
	resp, err := c.rc.R().SetContext(ctx).SetBody(record).Put(path)
	return check(http.MethodPut, path, resp, err)
}

// Remove deletes the record with the given id.
func (c *Client) Remove(ctx context.Context, id int64) error {
	path := itemPath(id)
	resp, err := c.rc.R().SetContext(ctx).Delete(path)
	return check(http.MethodDelete, path, resp, err)
}

func itemPath(id int64) string {
	return DataPath + "/" + strconv.FormatInt(id, 10)
}

func check(method, path string, resp *resty.Response, err error) error {
	if err != nil {
		return &RequestError{Method: method, Path: path, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode()}
	}
	return nil
}
