package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"tradeboard/frontend/trades"
	"tradeboard/infrastructure/audit"
	"tradeboard/infrastructure/cache"
	"tradeboard/infrastructure/recordstore"
	"tradeboard/infrastructure/sqlite"
	"tradeboard/models"
)

type integrationEnv struct {
	dashboard *httptest.Server
	api       *httptest.Server
	db        *sqlite.DB
}

func setupIntegrationServer(t *testing.T) (*integrationEnv, *http.Client) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "server-integration.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	apiServer := NewAPIServer("127.0.0.1:0", db, audit.NewService())
	apiTS := httptest.NewServer(apiServer.Handler())

	store := recordstore.New(apiTS.URL, 5*time.Second)
	ctrl := trades.NewController(store, cache.NewRecordCache(), []int{5, 10, 25, 50, 100}, 100)
	s := NewServer("127.0.0.1:0", ctrl, cache.NewSubmissionCache(time.Minute), "http://dashboard.test")
	ts := httptest.NewServer(s.Handler())

	env := &integrationEnv{dashboard: ts, api: apiTS, db: db}
	t.Cleanup(func() {
		env.dashboard.Close()
		env.api.Close()
		_ = env.db.Close()
	})

	return env, newHTTPClient(t)
}

func newHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, baseURL, path string, data url.Values) *http.Response {
	t.Helper()
	if data == nil {
		data = url.Values{}
	}
	if token := csrfToken(t, client, baseURL); token != "" {
		data.Set("_csrf", token)
	}
	resp, err := client.PostForm(baseURL+path, data)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func get(t *testing.T, client *http.Client, baseURL, path string) *http.Response {
	t.Helper()
	resp, err := client.Get(baseURL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(raw)
}

func csrfToken(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	u, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "X-CSRF-Token" {
			return c.Value
		}
	}
	return ""
}

var submissionTokenRe = regexp.MustCompile(`name="submission_token" value="([^"]+)"`)

// openDialog loads a dialog page and returns its one-shot submission token.
func openDialog(t *testing.T, client *http.Client, baseURL, path string) string {
	t.Helper()
	body := readBody(t, get(t, client, baseURL, path))
	m := submissionTokenRe.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no submission token on %s", path)
	}
	return m[1]
}

func redirectStatus(t *testing.T, resp *http.Response) url.Values {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	return loc.Query()
}

func apiTrades(t *testing.T, env *integrationEnv) []models.TradeRecord {
	t.Helper()
	resp, err := http.Get(env.api.URL + "/data")
	if err != nil {
		t.Fatalf("GET /data: %v", err)
	}
	var rows []models.TradeRecord
	if err := json.Unmarshal([]byte(readBody(t, resp)), &rows); err != nil {
		t.Fatalf("decode /data: %v", err)
	}
	return rows
}

func tradeForm(token string, r models.TradeRecord) url.Values {
	return url.Values{
		"submission_token": {token},
		"date":             {r.Date},
		"trade_code":       {r.TradeCode},
		"high":             {r.High},
		"low":              {r.Low},
		"open":             {r.Open},
		"close":            {r.Close},
		"volume":           {r.Volume},
	}
}

func TestCSRFPostWithoutTokenRejected(t *testing.T) {
	env, client := setupIntegrationServer(t)

	// No GET first: no CSRF token available in cookie or form.
	resp, err := client.PostForm(env.dashboard.URL+"/trades", url.Values{"trade_code": {"X"}})
	if err != nil {
		t.Fatalf("post trade: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for missing csrf, got %d", resp.StatusCode)
	}
}

func TestCSRFPost_CrossOriginRejected(t *testing.T) {
	env, client := setupIntegrationServer(t)
	readBody(t, get(t, client, env.dashboard.URL, "/trades"))

	form := url.Values{"_csrf": {csrfToken(t, client, env.dashboard.URL)}}
	req, err := http.NewRequest(http.MethodPost, env.dashboard.URL+"/trades/1/delete", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("post cross-origin request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-origin post, got %d", resp.StatusCode)
	}
}

func TestRootRedirectsToTrades(t *testing.T) {
	env, client := setupIntegrationServer(t)
	resp := get(t, client, env.dashboard.URL, "/")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/trades" {
		t.Fatalf("expected redirect to /trades, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestAPIAllowsAnyOrigin(t *testing.T) {
	env, _ := setupIntegrationServer(t)

	req, err := http.NewRequest(http.MethodOptions, env.api.URL+"/data", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
}

func TestServerEndToEndCoreFlow(t *testing.T) {
	env, client := setupIntegrationServer(t)
	base := env.dashboard.URL

	if body := readBody(t, get(t, client, base, "/trades")); !strings.Contains(body, "No trades found") {
		t.Fatalf("expected empty table on first load")
	}

	// Add: a blank field is rejected inline and nothing reaches the API.
	token := openDialog(t, client, base, "/trades?dialog=add")
	draft := models.TradeRecord{Date: "2020-08-10", TradeCode: "1JANATAMF", High: "4.3", Low: "4.1", Open: "4.2", Close: "4.1", Volume: "2,285,416"}
	incomplete := draft
	incomplete.Open = ""
	resp := postForm(t, client, base, "/trades", tradeForm(token, incomplete))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing field, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Open is required") {
		t.Fatalf("expected inline open error")
	}
	if rows := apiTrades(t, env); len(rows) != 0 {
		t.Fatalf("expected no stored trades, got %d", len(rows))
	}

	// The same token succeeds once the form is complete, then is spent.
	if q := redirectStatus(t, postForm(t, client, base, "/trades", tradeForm(token, draft))); q.Get("status") != trades.AddedMessage {
		t.Fatalf("expected added status, got %v", q)
	}
	if q := redirectStatus(t, postForm(t, client, base, "/trades", tradeForm(token, draft))); q.Get("error") == "" {
		t.Fatalf("expected resubmission to be refused, got %v", q)
	}
	rows := apiTrades(t, env)
	if len(rows) != 1 || rows[0].TradeCode != "1JANATAMF" || rows[0].Volume != "2,285,416" {
		t.Fatalf("unexpected stored trades: %+v", rows)
	}
	id := rows[0].ID

	if body := readBody(t, get(t, client, base, "/trades?q=janata")); !strings.Contains(body, "1JANATAMF") || !strings.Contains(body, "1-1 of 1") {
		t.Fatalf("expected filtered row and count in table")
	}

	// Update.
	updatePath := "/trades/" + strconv.FormatInt(id, 10)
	token = openDialog(t, client, base, "/trades?dialog=update&id="+strconv.FormatInt(id, 10))
	edited := draft
	edited.Close = "4.4"
	if q := redirectStatus(t, postForm(t, client, base, updatePath, tradeForm(token, edited))); q.Get("status") != trades.UpdatedMessage {
		t.Fatalf("expected updated status, got %v", q)
	}
	if rows := apiTrades(t, env); rows[0].Close != "4.4" {
		t.Fatalf("expected close 4.4, got %q", rows[0].Close)
	}

	// Reports render from the refreshed copy.
	if body := readBody(t, get(t, client, base, "/reports")); !strings.Contains(body, `<option value="1JANATAMF" selected>`) {
		t.Fatalf("expected trade code in reports page")
	}

	// Delete needs confirmation.
	deletePath := updatePath + "/delete"
	if body := readBody(t, get(t, client, base, deletePath)); !strings.Contains(body, "Are you sure you want to delete this record?") {
		t.Fatalf("expected delete confirmation")
	}
	redirectStatus(t, postForm(t, client, base, deletePath, url.Values{}))
	if rows := apiTrades(t, env); len(rows) != 1 {
		t.Fatalf("expected unconfirmed delete to keep the trade")
	}
	if q := redirectStatus(t, postForm(t, client, base, deletePath, url.Values{"confirm": {"yes"}})); q.Get("status") != trades.DeletedMessage {
		t.Fatalf("expected deleted status, got %v", q)
	}
	if rows := apiTrades(t, env); len(rows) != 0 {
		t.Fatalf("expected empty store after delete, got %d", len(rows))
	}
}

func TestDashboardSurvivesAPIOutage(t *testing.T) {
	env, client := setupIntegrationServer(t)
	readBody(t, get(t, client, env.dashboard.URL, "/trades"))
	env.api.Close()

	body := readBody(t, get(t, client, env.dashboard.URL, "/trades"))
	if !strings.Contains(body, "Could not refresh trades") {
		t.Fatalf("expected load warning when the API is down")
	}

	token := openDialog(t, client, env.dashboard.URL, "/trades?dialog=add")
	draft := models.TradeRecord{Date: "2020-08-10", TradeCode: "X", High: "1", Low: "1", Open: "1", Close: "1", Volume: "1"}
	resp := postForm(t, client, env.dashboard.URL, "/trades", tradeForm(token, draft))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 when the API is down, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, trades.AddFailedMessage) {
		t.Fatalf("expected add failure alert")
	}
}
