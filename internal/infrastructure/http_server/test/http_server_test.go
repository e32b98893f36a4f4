package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/bionicotaku/lingo-services-person/internal/controllers"
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/configloader"
	httpserver "github.com/bionicotaku/lingo-services-person/internal/infrastructure/http_server"
	loginfra "github.com/bionicotaku/lingo-services-person/internal/infrastructure/logger"
	"github.com/bionicotaku/lingo-services-person/internal/models/mapper"
	"github.com/bionicotaku/lingo-services-person/internal/models/paging"
	"github.com/bionicotaku/lingo-services-person/internal/models/po"
	"github.com/bionicotaku/lingo-services-person/internal/repositories"
	"github.com/bionicotaku/lingo-services-person/internal/services"

	"github.com/bionicotaku/lingo-utils/observability"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Code     int               `json:"code"`
	Reason   string            `json:"reason"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata"`
}

type pageBody struct {
	Content []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Age  int32  `json:"age"`
	} `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

func TestPersonRoutes_CRUD(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, body := do(t, ts, stdhttp.MethodPost, "/persons", `{"name":"Ann","age":30,"email":"ann@example.com"}`, nil)
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)
	require.JSONEq(t, `{"message":"Created person with ID 1"}`, body)

	resp, body = do(t, ts, stdhttp.MethodGet, "/persons/1", "", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"id":1,"name":"Ann","age":30,"email":"ann@example.com"}`, body)

	resp, body = do(t, ts, stdhttp.MethodPut, "/persons/1", `{"id":9,"name":"Ann B","age":31}`, nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"message":"Updated person with ID 1"}`, body)

	resp, body = do(t, ts, stdhttp.MethodGet, "/persons/1", "", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"id":1,"name":"Ann B","age":31}`, body)

	resp, body = do(t, ts, stdhttp.MethodDelete, "/persons/1", "", nil)
	require.Equal(t, stdhttp.StatusNoContent, resp.StatusCode)
	require.Empty(t, body)

	resp, body = do(t, ts, stdhttp.MethodGet, "/persons/1", "", nil)
	require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
	var eb errorBody
	require.NoError(t, json.Unmarshal([]byte(body), &eb))
	require.Equal(t, 404, eb.Code)
	require.Equal(t, services.ReasonPersonNotFound, eb.Reason)
	require.Equal(t, "Person not found!", eb.Message)
	require.NotEmpty(t, eb.Metadata["request_id"])
	require.Equal(t, eb.Metadata["request_id"], resp.Header.Get(controllers.HeaderRequestID))
}

func TestPersonRoutes_FindPage(t *testing.T) {
	ts, repo := newTestServer(t, nil)
	for _, name := range []string{"Cid", "Ann", "Bob"} {
		repo.seed(&po.Person{Name: name, Age: 20})
	}

	resp, body := do(t, ts, stdhttp.MethodGet, "/persons", "", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var page pageBody
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Content, 3)
	require.Equal(t, 0, page.Page)
	require.Equal(t, paging.DefaultPageSize, page.Size)
	require.Equal(t, int64(3), page.TotalElements)
	require.Equal(t, 1, page.TotalPages)

	resp, body = do(t, ts, stdhttp.MethodGet, "/persons?page=1&size=2&sort=name,asc", "", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	page = pageBody{}
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Content, 1)
	require.Equal(t, "Cid", page.Content[0].Name)
	require.Equal(t, 2, page.TotalPages)
	require.Equal(t, []paging.Order{{Property: "name", Direction: paging.ASC}}, repo.lastSort)

	resp, body = do(t, ts, stdhttp.MethodGet, "/persons?page=9", "", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"content":[]`)

	resp, body = do(t, ts, stdhttp.MethodGet, "/persons?page=92233720368547759&size=100", "", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode, body)
	require.Contains(t, body, `"content":[]`)
	require.Contains(t, body, `"total_elements":3`)
}

func TestPersonRoutes_BadRequests(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "non numeric id", method: stdhttp.MethodGet, path: "/persons/abc"},
		{name: "overflowing id", method: stdhttp.MethodDelete, path: "/persons/99999999999999999999"},
		{name: "unknown sort", method: stdhttp.MethodGet, path: "/persons?sort=salary,desc"},
		{name: "bad direction", method: stdhttp.MethodGet, path: "/persons?sort=name,up"},
		{name: "bad size", method: stdhttp.MethodGet, path: "/persons?size=big"},
		{name: "bad update id", method: stdhttp.MethodPut, path: "/persons/1x", body: `{"name":"x"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, ts, tc.method, tc.path, tc.body, nil)
			require.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode, body)
			var eb errorBody
			require.NoError(t, json.Unmarshal([]byte(body), &eb))
			require.Equal(t, services.ReasonInvalidArgument, eb.Reason)
			require.NotEmpty(t, eb.Metadata["request_id"])
		})
	}
}

func TestPersonRoutes_MissingPersonAndConflict(t *testing.T) {
	ts, repo := newTestServer(t, nil)
	repo.seed(&po.Person{Name: "Ann", Age: 30})
	repo.referenced[1] = true

	resp, body := do(t, ts, stdhttp.MethodPut, "/persons/42", `{"name":"x"}`, nil)
	require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode, body)

	resp, body = do(t, ts, stdhttp.MethodDelete, "/persons/42", "", nil)
	require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode, body)

	resp, body = do(t, ts, stdhttp.MethodDelete, "/persons/1", "", map[string]string{controllers.HeaderRequestID: "req-conflict"})
	require.Equal(t, stdhttp.StatusConflict, resp.StatusCode)
	var eb errorBody
	require.NoError(t, json.Unmarshal([]byte(body), &eb))
	require.Equal(t, services.ReasonPersonDataIntegrity, eb.Reason)
	require.Equal(t, "Failed when trying to delete person with ID 1", eb.Message)
	require.Equal(t, "req-conflict", eb.Metadata["request_id"])
	require.Equal(t, "req-conflict", resp.Header.Get(controllers.HeaderRequestID))
}

func TestPersonRoutes_NonPositiveIDsAreNotFound(t *testing.T) {
	ts, repo := newTestServer(t, nil)
	repo.seed(&po.Person{Name: "Ann", Age: 30})

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{method: stdhttp.MethodGet, path: "/persons/0"},
		{method: stdhttp.MethodGet, path: "/persons/-1"},
		{method: stdhttp.MethodPut, path: "/persons/0", body: `{"name":"x"}`},
		{method: stdhttp.MethodDelete, path: "/persons/-7"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp, body := do(t, ts, tc.method, tc.path, tc.body, nil)
			require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode, body)
			var eb errorBody
			require.NoError(t, json.Unmarshal([]byte(body), &eb))
			require.Equal(t, services.ReasonPersonNotFound, eb.Reason)
			require.Equal(t, "Person not found!", eb.Message)
		})
	}
	require.Len(t, repo.rows, 1)
}

func TestPersonRoutes_InternalErrorHidesCause(t *testing.T) {
	ts, repo := newTestServer(t, nil)
	repo.saveErr = errors.New("password=secret connection refused")

	resp, body := do(t, ts, stdhttp.MethodPost, "/persons", `{"name":"Ann"}`, nil)
	require.Equal(t, stdhttp.StatusInternalServerError, resp.StatusCode)
	require.NotContains(t, body, "secret")
	var eb errorBody
	require.NoError(t, json.Unmarshal([]byte(body), &eb))
	require.Equal(t, services.ReasonInternal, eb.Reason)
}

func TestPersonRoutes_LogsCarryUserID(t *testing.T) {
	rec := &recordLogger{}
	logger := log.With(rec, "request_id", loginfra.RequestID(), "user_id", loginfra.UserID())
	ts, _ := newTestServerWithLogger(t, nil, logger)

	resp, body := do(t, ts, stdhttp.MethodPost, "/persons", `{"name":"Ann","age":30}`, map[string]string{
		controllers.HeaderRequestID: "req-user",
		"x-md-global-user-id":       "user-42",
	})
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode, body)

	entry, ok := rec.find("person created")
	require.True(t, ok, "service log entry missing")
	require.Equal(t, "user-42", entry["user_id"])
	require.Equal(t, "req-user", entry["request_id"])
}

func TestOperationalEndpoints(t *testing.T) {
	probe := &probeStub{}
	ts, _ := newTestServer(t, probe)

	resp, _ := do(t, ts, stdhttp.MethodGet, "/healthz", "", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	resp, _ = do(t, ts, stdhttp.MethodGet, "/readyz", "", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	probe.err = errors.New("pool closed")
	resp, _ = do(t, ts, stdhttp.MethodGet, "/readyz", "", nil)
	require.Equal(t, stdhttp.StatusServiceUnavailable, resp.StatusCode)

	// 先产生一次业务请求，确保计数器有样本。
	do(t, ts, stdhttp.MethodGet, "/persons", "", nil)
	resp, body := do(t, ts, stdhttp.MethodGet, "/metrics", "", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	require.Contains(t, body, "go_goroutines")
}

func newTestServer(t *testing.T, probe httpserver.ReadinessProbe) (*httptest.Server, *personRepoStub) {
	t.Helper()
	return newTestServerWithLogger(t, probe, log.NewStdLogger(io.Discard))
}

func newTestServerWithLogger(t *testing.T, probe httpserver.ReadinessProbe, logger log.Logger) (*httptest.Server, *personRepoStub) {
	t.Helper()

	tel, cleanup, err := httpserver.NewTelemetry(
		configloader.ServiceMetadata{Name: "person-test"},
		observability.ObservabilityConfig{},
		logger,
	)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	repo := newPersonRepoStub()
	svc := services.NewPersonService(repo, mapper.NewPersonMapper(), noopTxManager{}, logger)
	handler := controllers.NewPersonHandler(svc, controllers.NewBaseHandler(controllers.HandlerTimeouts{}))

	cfg := &configloader.ServerConfig{
		HTTP:             configloader.HTTPConfig{Network: "tcp", Addr: "127.0.0.1:0"},
		MetadataPrefixes: []string{"x-md-"},
	}
	srv := httpserver.NewHTTPServer(cfg, tel, probe, handler, logger)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, repo
}

func do(t *testing.T, ts *httptest.Server, method, path, body string, headers map[string]string) (*stdhttp.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := stdhttp.NewRequestWithContext(context.Background(), method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

// recordLogger 保存每条日志的键值对，便于断言上下文字段。
type recordLogger struct {
	mu      sync.Mutex
	entries []map[string]any
}

func (l *recordLogger) Log(_ log.Level, keyvals ...any) error {
	entry := make(map[string]any, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		entry[fmt.Sprint(keyvals[i])] = keyvals[i+1]
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	return nil
}

func (l *recordLogger) find(msgPrefix string) (map[string]any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if msg, ok := e[log.DefaultMessageKey].(string); ok && strings.HasPrefix(msg, msgPrefix) {
			return e, true
		}
	}
	return nil, false
}

type probeStub struct {
	err error
}

func (p *probeStub) Ping(context.Context) error { return p.err }

// personRepoStub 是并发安全的内存版 PersonRepo。
type personRepoStub struct {
	mu         sync.Mutex
	rows       map[int64]*po.Person
	referenced map[int64]bool
	nextID     int64
	saveErr    error
	lastSort   []paging.Order
}

func newPersonRepoStub() *personRepoStub {
	return &personRepoStub{
		rows:       map[int64]*po.Person{},
		referenced: map[int64]bool{},
	}
}

func (r *personRepoStub) seed(p *po.Person) *po.Person {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(p)
}

func (r *personRepoStub) insertLocked(p *po.Person) *po.Person {
	r.nextID++
	cp := *p
	cp.ID = r.nextID
	r.rows[cp.ID] = &cp
	out := cp
	return &out
}

func (r *personRepoStub) FindByID(_ context.Context, _ txmanager.Session, id int64) (*po.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrPersonNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *personRepoStub) FindAll(_ context.Context, _ txmanager.Session, pageable paging.Pageable) (paging.Page[*po.Person], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSort = pageable.Sort

	all := make([]*po.Person, 0, len(r.rows))
	for _, p := range r.rows {
		cp := *p
		all = append(all, &cp)
	}
	byName := len(pageable.Sort) > 0 && pageable.Sort[0].Property == "name"
	sort.Slice(all, func(i, j int) bool {
		if byName {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})

	items := []*po.Person{}
	for i := int(pageable.Offset()); i < len(all) && len(items) < pageable.Size; i++ {
		items = append(items, all[i])
	}
	return paging.NewPage(items, pageable, int64(len(all))), nil
}

func (r *personRepoStub) Save(_ context.Context, _ txmanager.Session, p *po.Person) (*po.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	if p.ID == 0 {
		return r.insertLocked(p), nil
	}
	if _, ok := r.rows[p.ID]; !ok {
		return nil, repositories.ErrPersonNotFound
	}
	cp := *p
	r.rows[p.ID] = &cp
	out := cp
	return &out, nil
}

func (r *personRepoStub) DeleteByID(_ context.Context, _ txmanager.Session, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.referenced[id] {
		return fmt.Errorf("delete person %d: %w", id, repositories.ErrDataIntegrityViolation)
	}
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrPersonNotFound
	}
	delete(r.rows, id)
	return nil
}

type noopTxManager struct{}

type noopSession struct{}

func (noopSession) Tx() pgx.Tx               { return nil }
func (noopSession) Context() context.Context { return context.Background() }

func (noopTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, noopSession{})
}

func (noopTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, noopSession{})
}
