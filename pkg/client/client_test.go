package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// fakeAPI is a minimal in-memory stand-in for the Folio API.
type fakeAPI struct {
	mu       sync.Mutex
	nextID   uint
	projects map[uint]Project
	blogs    map[uint]Blog
	lastForm map[string]string
	lastFile []byte
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{nextID: 1, projects: map[uint]Project{}, blogs: map[uint]Blog{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("GET /api/auth/me", f.auth(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Account{ID: 1, Email: "admin@example.com", Name: "Admin"})
	}))
	mux.HandleFunc("GET /api/projects", f.listProjects)
	mux.HandleFunc("POST /api/projects", f.auth(f.createProject))
	mux.HandleFunc("PUT /api/projects/{id}", f.auth(f.updateProject))
	mux.HandleFunc("DELETE /api/projects/{id}", f.auth(f.deleteProject))
	mux.HandleFunc("GET /api/blogs", f.listBlogs)
	mux.HandleFunc("GET /api/blogs/{id}", f.getBlog)
	mux.HandleFunc("PUT /api/blogs/{id}/like", f.likeBlog)
	mux.HandleFunc("POST /api/blogs/{id}/comments", f.commentBlog)
	mux.HandleFunc("DELETE /api/blogs/{id}", f.auth(f.deleteBlog))
	mux.HandleFunc("POST /api/upload", f.auth(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidation, "No file uploaded")
			return
		}
		defer func() { _ = file.Close() }()
		writeJSON(w, http.StatusCreated, map[string]string{"path": "/uploads/" + header.Filename})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Not authorized, no token")
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body["email"] != "admin@example.com" || body["password"] != "secret" {
		writeError(w, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": testToken,
		"user":  Account{ID: 1, Email: "admin@example.com", Name: "Admin"},
	})
}

func (f *fakeAPI) listProjects(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Project, 0, len(f.projects))
	for id := uint(1); id < f.nextID; id++ {
		if p, ok := f.projects[id]; ok {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeAPI) createProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastForm = map[string]string{}
	for k, v := range r.MultipartForm.Value {
		f.lastForm[k] = v[0]
	}
	if files := r.MultipartForm.File["projectImage"]; len(files) == 1 {
		file, _ := files[0].Open()
		f.lastFile, _ = io.ReadAll(file)
		_ = file.Close()
	}
	p := Project{
		ID:       f.nextID,
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
		Image:    "/uploads/projects/p.png",
		Tags:     strings.Split(r.FormValue("tags"), ","),
	}
	f.nextID++
	f.projects[p.ID] = p
	writeJSON(w, http.StatusCreated, p)
}

func (f *fakeAPI) updateProject(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "Project not found")
		return
	}
	if title, ok := body["title"]; ok {
		p.Title = title
	}
	f.projects[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (f *fakeAPI) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[id]; !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "Project not found")
		return
	}
	delete(f.projects, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project removed"})
}

func (f *fakeAPI) addBlog(b Blog) Blog {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.nextID
	f.nextID++
	b.ApplyDefaults()
	f.blogs[b.ID] = b
	return b
}

func (f *fakeAPI) listBlogs(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Blog{}
	for id := uint(1); id < f.nextID; id++ {
		if b, ok := f.blogs[id]; ok {
			out = append(out, b)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeAPI) mutateBlog(w http.ResponseWriter, r *http.Request, status int, fn func(*Blog)) {
	id := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blogs[id]
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "Blog post not found")
		return
	}
	fn(&b)
	f.blogs[id] = b
	writeJSON(w, status, b)
}

func (f *fakeAPI) getBlog(w http.ResponseWriter, r *http.Request) {
	f.mutateBlog(w, r, http.StatusOK, func(b *Blog) { b.Views++ })
}

func (f *fakeAPI) likeBlog(w http.ResponseWriter, r *http.Request) {
	f.mutateBlog(w, r, http.StatusOK, func(b *Blog) { b.Likes++ })
}

func (f *fakeAPI) commentBlog(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body["author"] == "" || body["content"] == "" {
		writeError(w, http.StatusBadRequest, CodeValidation, "Author and content are required")
		return
	}
	f.mutateBlog(w, r, http.StatusCreated, func(b *Blog) {
		b.Comments = append(b.Comments, BlogComment{ID: uint(len(b.Comments) + 1), Author: body["author"], Content: body["content"]})
	})
}

func (f *fakeAPI) deleteBlog(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blogs, pathID(r))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blog post removed"})
}

func pathID(r *http.Request) uint {
	id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)
	return uint(id)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.ErrorResponse{Success: false, Message: message, Code: code})
}

func TestAuthContext(t *testing.T) {
	t.Parallel()

	auth := NewAuthContext("")
	assert.False(t, auth.Authenticated())

	auth.SetToken("abc")
	assert.True(t, auth.Authenticated())
	assert.Equal(t, "abc", auth.Token())

	auth.Clear()
	assert.False(t, auth.Authenticated())
	assert.Empty(t, auth.Token())
}

func TestLoginStoresToken(t *testing.T) {
	t.Parallel()
	_, srv := newFakeAPI(t)
	ctx := context.Background()

	c := New(srv.URL, nil)
	_, err := c.Me(ctx)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeUnauthorized))

	_, err = c.Login(ctx, "admin@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.False(t, c.Auth().Authenticated())

	user, err := c.Login(ctx, "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, testToken, c.Auth().Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), me.ID)

	c.Auth().Clear()
	_, err = c.Me(ctx)
	assert.Error(t, err)
}

func TestCreateSendsMultipart(t *testing.T) {
	t.Parallel()
	api, srv := newFakeAPI(t)
	c := New(srv.URL, NewAuthContext(testToken))

	project, err := c.Projects().Create(context.Background(), Payload{
		Fields: map[string]any{"title": "Folio", "category": "web", "tags": []string{"go", "fiber"}},
		File:   &File{Field: "projectImage", Filename: "shot.png", ContentType: "image/png", Content: []byte("png-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Folio", project.Title)
	assert.Equal(t, []string{"go", "fiber"}, project.Tags)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, "go,fiber", api.lastForm["tags"])
	assert.Equal(t, []byte("png-bytes"), api.lastFile)
}

func TestUpload(t *testing.T) {
	t.Parallel()
	_, srv := newFakeAPI(t)
	c := New(srv.URL, NewAuthContext(testToken))

	path, err := c.Upload(context.Background(), File{Field: "image", Filename: "a.png", Content: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", path)
}

func TestFormValue(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", formValue(nil))
	assert.Equal(t, "a,b", formValue([]string{"a", "b"}))
	assert.Equal(t, "4", formValue(4))
	assert.Equal(t, "true", formValue(true))
}
