// Package client is a Go client for the Folio API with an in-memory store
// that mirrors the server's content collections.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"folio/internal/models"
)

// AuthContext holds the bearer token used by a Client. It is passed
// explicitly and is safe for concurrent use.
type AuthContext struct {
	mu    sync.RWMutex
	token string
}

// NewAuthContext returns an AuthContext holding token, which may be empty.
func NewAuthContext(token string) *AuthContext {
	return &AuthContext{token: token}
}

func (a *AuthContext) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *AuthContext) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// Clear discards the token. This is the only logout there is.
func (a *AuthContext) Clear() {
	a.SetToken("")
}

func (a *AuthContext) Authenticated() bool {
	return a.Token() != ""
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// File is an image sent with a create or update.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// Payload is the body of a create or update. Only the keys in Fields are
// sent, so an update touches nothing else. With a File the payload is sent
// as multipart form data, otherwise as JSON.
type Payload struct {
	Fields map[string]any
	File   *File
}

// Client talks to a Folio API.
type Client struct {
	baseURL string
	http    *http.Client
	auth    *AuthContext
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a Client for the API at baseURL (without the /api suffix).
// A nil auth gets a fresh, empty AuthContext.
func New(baseURL string, auth *AuthContext, opts ...Option) *Client {
	if auth == nil {
		auth = NewAuthContext("")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		auth:    auth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Auth returns the client's AuthContext.
func (c *Client) Auth() *AuthContext {
	return c.auth
}

type loginResponse struct {
	Token string          `json:"token"`
	User  *Account `json:"user"`
}

// Login exchanges credentials for a token and stores it in the AuthContext.
func (c *Client) Login(ctx context.Context, email, password string) (*Account, error) {
	var out loginResponse
	body := Payload{Fields: map[string]any{"email": email, "password": password}}
	if err := c.do(ctx, http.MethodPost, "/auth/login", &body, &out); err != nil {
		return nil, err
	}
	c.auth.SetToken(out.Token)
	return out.User, nil
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Projects returns the project API.
func (c *Client) Projects() *Resource[Project] {
	return &Resource[Project]{c: c, path: "/projects"}
}

// Testimonials returns the testimonial API.
func (c *Client) Testimonials() *Resource[Testimonial] {
	return &Resource[Testimonial]{c: c, path: "/testimonials"}
}

// Timeline returns the timeline API.
func (c *Client) Timeline() *Resource[TimelineItem] {
	return &Resource[TimelineItem]{c: c, path: "/timeline"}
}

// Blogs returns the blog API.
func (c *Client) Blogs() *BlogResource {
	return &BlogResource{Resource: &Resource[Blog]{c: c, path: "/blogs"}}
}

// SubmitContact sends the public contact form.
func (c *Client) SubmitContact(ctx context.Context, name, email, subject, message string) (*Contact, error) {
	var out Contact
	body := Payload{Fields: map[string]any{"name": name, "email": email, "subject": subject, "message": message}}
	if err := c.do(ctx, http.MethodPost, "/contact", &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Subscribe adds email to the newsletter list.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	body := Payload{Fields: map[string]any{"email": email}}
	return c.do(ctx, http.MethodPost, "/subscribe", &body, nil)
}

// Upload stores a single image and returns its public path.
func (c *Client) Upload(ctx context.Context, file File) (string, error) {
	var out struct {
		Path string `json:"path"`
	}
	if err := c.do(ctx, http.MethodPost, "/upload", &Payload{File: &file}, &out); err != nil {
		return "", err
	}
	return out.Path, nil
}

// Resource is the typed CRUD API of one content type.
type Resource[T any] struct {
	c    *Client
	path string
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id uint) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Create(ctx context.Context, p Payload) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPost, r.path, &p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Update(ctx context.Context, id uint, p Payload) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPut, r.itemPath(id), &p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id uint) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

func (r *Resource[T]) itemPath(id uint) string {
	return r.path + "/" + strconv.FormatUint(uint64(id), 10)
}

// BlogResource adds the public blog actions to the CRUD API.
type BlogResource struct {
	*Resource[Blog]
}

func (r *BlogResource) Like(ctx context.Context, id uint) (*Blog, error) {
	var out Blog
	if err := r.c.do(ctx, http.MethodPut, r.itemPath(id)+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BlogResource) Comment(ctx context.Context, id uint, author, content string) (*Blog, error) {
	var out Blog
	body := Payload{Fields: map[string]any{"author": author, "content": content}}
	if err := r.c.do(ctx, http.MethodPost, r.itemPath(id)+"/comments", &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Related asks the server for posts in the same category.
func (r *BlogResource) Related(ctx context.Context, id uint) ([]Blog, error) {
	var out []Blog
	if err := r.c.do(ctx, http.MethodGet, r.itemPath(id)+"/related", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body *Payload, out any) error {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		buf, ct, err := encodePayload(body)
		if err != nil {
			return err
		}
		reader, contentType = buf, ct
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.auth.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		}
		apiErr.Code = body.Code
	}
	return apiErr
}

func encodePayload(p *Payload) (io.Reader, string, error) {
	if p.File == nil {
		fields := p.Fields
		if fields == nil {
			fields = map[string]any{}
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return nil, "", fmt.Errorf("encode payload: %w", err)
		}
		return bytes.NewReader(raw), "application/json", nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, formValue(p.Fields[k])); err != nil {
			return nil, "", err
		}
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.File.Field, p.File.Filename))
	contentType := p.File.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(p.File.Content)
	}
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(p.File.Content); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// formValue renders a field for multipart forms. Lists become comma separated.
func formValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
