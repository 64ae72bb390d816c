package taskapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSequence struct{ next int }

func (f *fixedSequence) Next() int {
	f.next += 10
	return f.next
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code, rec.Body.String()
}

func TestHandler_CRUD(t *testing.T) {
	h := NewHandler(NewStore(NewCounter(1)))

	code, body := do(t, h, "GET", "/", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, `{"message":"Hello FastAPI!"}`, body)

	code, body = do(t, h, "POST", "/tasks/", `{"title":"buy milk"}`)
	assert.Equal(t, 201, code)
	assert.Equal(t, `{"id":1,"title":"buy milk","description":null,"completed":false}`, body)

	code, body = do(t, h, "POST", "/tasks/", `{"title":"write report","description":"quarterly"}`)
	assert.Equal(t, 201, code)
	assert.Contains(t, body, `"id":2`)

	code, body = do(t, h, "GET", "/tasks/", "")
	assert.Equal(t, 200, code)
	var tasks []Task
	require.NoError(t, json.Unmarshal([]byte(body), &tasks))
	assert.Len(t, tasks, 2)

	code, body = do(t, h, "PUT", "/tasks/1", `{"completed":true}`)
	assert.Equal(t, 200, code)
	assert.Equal(t, `{"id":1,"title":"buy milk","description":null,"completed":true}`, body)

	code, body = do(t, h, "DELETE", "/tasks/1", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, `{"message":"Task deleted successfully."}`, body)

	code, body = do(t, h, "GET", "/tasks/1", "")
	assert.Equal(t, 404, code)
	assert.Equal(t, `{"detail":"Task not found"}`, body)

	code, _ = do(t, h, "DELETE", "/tasks/1", "")
	assert.Equal(t, 404, code)

	code, body = do(t, h, "POST", "/tasks/", `{"title":"again"}`)
	assert.Equal(t, 201, code)
	assert.Contains(t, body, `"id":3`, "ids are not reused")
}

func TestHandler_Validation(t *testing.T) {
	h := NewHandler(NewStore(nil))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing body", "POST", "/tasks/", "", 422},
		{"missing title", "POST", "/tasks/", `{"description":"x"}`, 422},
		{"empty title", "POST", "/tasks/", `{"title":""}`, 422},
		{"title too long", "POST", "/tasks/", `{"title":"` + strings.Repeat("a", 201) + `"}`, 422},
		{"max title", "POST", "/tasks/", `{"title":"` + strings.Repeat("あ", 200) + `"}`, 201},
		{"description too long", "POST", "/tasks/", `{"title":"a","description":"` + strings.Repeat("d", 2001) + `"}`, 422},
		{"wrong type", "POST", "/tasks/", `{"title":5}`, 422},
		{"not json", "POST", "/tasks/", `title=x`, 422},
		{"non integer id", "GET", "/tasks/abc", "", 422},
		{"update bad completed", "PUT", "/tasks/1", `{"completed":"yes"}`, 422},
		{"update missing task", "PUT", "/tasks/99", `{"title":"x"}`, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code, body)
			if tt.want == 422 {
				assert.Contains(t, body, `"detail":[`)
			}
		})
	}
}

func TestHandler_ValidationLocation(t *testing.T) {
	h := NewHandler(NewStore(nil))
	_, body := do(t, h, "POST", "/tasks/", `{}`)

	var resp struct {
		Detail []ValidationError `json:"detail"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Detail)
	assert.Equal(t, []string{"body", "title"}, resp.Detail[0].Loc)
	assert.Equal(t, "required", resp.Detail[0].Type)
}

func TestHandler_RedirectsWithoutSlash(t *testing.T) {
	h := NewHandler(NewStore(nil))
	code, _ := do(t, h, "POST", "/tasks", `{"title":"x"}`)
	assert.Equal(t, http.StatusTemporaryRedirect, code)
}

func TestStore_InjectedSequence(t *testing.T) {
	s := NewStore(&fixedSequence{})
	a := s.Create(TaskCreate{Title: "a"})
	b := s.Create(TaskCreate{Title: "b"})
	assert.Equal(t, 10, a.ID)
	assert.Equal(t, 20, b.ID)

	title := "renamed"
	updated, ok := s.Update(20, TaskUpdate{Title: &title})
	require.True(t, ok)
	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, s.Delete(10))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, 20, list[0].ID)
}

func TestServer_Handler(t *testing.T) {
	srv := NewServer(WithSequence(NewCounter(100)), WithPort(0))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/tasks/", "application/json", strings.NewReader(`{"title":"x"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, 201, resp.StatusCode)
	assert.Contains(t, string(body), `"id":100`)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
}
