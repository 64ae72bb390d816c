package taskapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

const maxBodyBytes = 1 << 20

type detail struct {
	Detail any `json:"detail"`
}

type handler struct {
	store *Store
}

// NewHandler returns the API routes backed by store.
func NewHandler(store *Store) http.Handler {
	h := &handler{store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.hello)
	mux.HandleFunc("/tasks", redirectSlash)
	mux.HandleFunc("POST /tasks/{$}", h.create)
	mux.HandleFunc("GET /tasks/{$}", h.list)
	mux.HandleFunc("GET /tasks/{id}", h.get)
	mux.HandleFunc("PUT /tasks/{id}", h.update)
	mux.HandleFunc("DELETE /tasks/{id}", h.delete)
	return mux
}

func redirectSlash(w http.ResponseWriter, r *http.Request) {
	u := *r.URL
	u.Path += "/"
	http.Redirect(w, r, u.String(), http.StatusTemporaryRedirect)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, detail{Detail: "Task not found"})
}

func taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, detail{Detail: []ValidationError{{
			Loc:  []string{"path", "task_id"},
			Msg:  "Input should be a valid integer, unable to parse string as an integer",
			Type: "int_parsing",
		}}})
		return 0, false
	}
	return id, true
}

// decode validates the request body and unmarshals it into v. It writes the
// 422 response itself and reports false on failure.
func decode(w http.ResponseWriter, r *http.Request, v any, validator func([]byte) []ValidationError) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, detail{Detail: "Could not read request body"})
		return false
	}
	if errs := validator(body); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, detail{Detail: errs})
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, detail{Detail: []ValidationError{{
			Loc: []string{"body"}, Msg: err.Error(), Type: "json_invalid",
		}}})
		return false
	}
	return true
}

func (h *handler) hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello FastAPI!"})
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var in TaskCreate
	if !decode(w, r, &in, func(b []byte) []ValidationError { return validate(createValidator, b) }) {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.Create(in))
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	t, found := h.store.Get(id)
	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var in TaskUpdate
	if !decode(w, r, &in, func(b []byte) []ValidationError { return validate(updateValidator, b) }) {
		return
	}
	t, found := h.store.Update(id, in)
	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if !h.store.Delete(id) {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully."})
}
