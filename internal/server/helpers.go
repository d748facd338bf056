package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// MsgUnexpectedField is returned for a file sent under a field the route does not accept.
const MsgUnexpectedField = service.MsgUnexpectedField

// parseID extracts a route parameter by name as a positive uint.
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "blogId" -> "Invalid blog ID").
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid " + humanizeParam(param))
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if prefix, ok := strings.CutSuffix(param, "Id"); ok && prefix != "" {
		return strings.ToLower(strings.Join(splitCamel(prefix), " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// payload is a request body decoded from JSON, a multipart form or an
// urlencoded form. Only keys present in the body are reported by Has, which
// is what makes partial updates possible.
type payload struct {
	json map[string]any
	form map[string][]string
}

func readPayload(c *fiber.Ctx) (*payload, error) {
	p := &payload{}
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, models.NewValidationError("Invalid multipart form")
		}
		p.form = form.Value
	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		p.form = map[string][]string{}
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			k := string(key)
			p.form[k] = append(p.form[k], string(value))
		})
	default:
		body := bytes.TrimSpace(c.Body())
		if len(body) == 0 {
			p.json = map[string]any{}
			return p, nil
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&p.json); err != nil || p.json == nil {
			return nil, models.NewValidationError("Invalid request body")
		}
	}
	return p, nil
}

// Has reports whether key was sent.
func (p *payload) Has(key string) bool {
	if p.form != nil {
		_, ok := p.form[key]
		return ok
	}
	_, ok := p.json[key]
	return ok
}

// String returns the value of key as text. JSON numbers keep their literal form.
func (p *payload) String(key string) (string, bool) {
	if p.form != nil {
		values, ok := p.form[key]
		if !ok || len(values) == 0 {
			return "", ok
		}
		return values[0], true
	}
	raw, ok := p.json[key]
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", true
	}
}

// Int returns the value of key as an integer.
func (p *payload) Int(key string) (int, bool, error) {
	s, ok := p.String(key)
	if !ok {
		return 0, false, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && f == float64(int(f)) {
			return int(f), true, nil
		}
		return 0, true, models.NewValidationError(key + " must be a number")
	}
	return n, true, nil
}

// Bool returns the value of key as a boolean. Unparseable text reads as false.
func (p *payload) Bool(key string) (bool, bool) {
	if p.form == nil {
		if v, ok := p.json[key].(bool); ok {
			return v, true
		}
	}
	s, ok := p.String(key)
	if !ok {
		return false, false
	}
	b, _ := strconv.ParseBool(strings.TrimSpace(s))
	return b, true
}

// List returns the value of key as a list of strings. A JSON array, repeated
// form values and a comma separated string are all accepted.
func (p *payload) List(key string) ([]string, bool) {
	if p.form != nil {
		values, ok := p.form[key]
		if !ok {
			return nil, false
		}
		if len(values) == 1 {
			return splitList(values[0]), true
		}
		return cleanList(values), true
	}

	raw, ok := p.json[key]
	if !ok {
		return nil, false
	}
	switch v := raw.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case json.Number:
				out = append(out, s.String())
			}
		}
		return cleanList(out), true
	case string:
		return splitList(v), true
	default:
		return []string{}, true
	}
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var items []string
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return cleanList(items)
		}
	}
	return cleanList(strings.Split(s, ","))
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// setString copies key into dst when it was sent.
func (p *payload) setString(key string, dst *string) {
	if v, ok := p.String(key); ok {
		*dst = v
	}
}

func (p *payload) setList(key string, dst *[]string) {
	if v, ok := p.List(key); ok {
		*dst = v
	}
}

func (p *payload) setInt(key string, dst *int) error {
	v, ok, err := p.Int(key)
	if err != nil {
		return err
	}
	if ok {
		*dst = v
	}
	return nil
}

func (p *payload) setBool(key string, dst *bool) {
	if v, ok := p.Bool(key); ok {
		*dst = v
	}
}

// fileUpload returns the first file sent under one of the allowed fields, or
// nil when the request carries no file. A file under any other field is
// rejected. With no allowed fields every field is accepted.
func fileUpload(c *fiber.Ctx, allowed ...string) (*service.UploadInput, error) {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, models.NewValidationError("Invalid multipart form")
	}

	fields := make([]string, 0, len(form.File))
	for field, files := range form.File {
		if len(files) == 0 {
			continue
		}
		if len(allowed) > 0 && !slices.Contains(allowed, field) {
			return nil, models.NewValidationError(MsgUnexpectedField)
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	// Prefer the route's own field over the generic alias.
	field := fields[0]
	if len(allowed) > 0 {
		for _, name := range allowed {
			if slices.Contains(fields, name) {
				field = name
				break
			}
		}
	} else {
		sort.Strings(fields)
		field = fields[0]
	}

	return readFileHeader(field, form.File[field][0])
}

// rejectFiles fails when a multipart request carries any file.
func rejectFiles(c *fiber.Ctx) error {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return models.NewValidationError("Invalid multipart form")
	}
	for _, files := range form.File {
		if len(files) > 0 {
			return models.NewValidationError(MsgUnexpectedField)
		}
	}
	return nil
}

func readFileHeader(field string, fh *multipart.FileHeader) (*service.UploadInput, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	// Reading stops one byte past the ceiling so the size check still fires.
	content, err := io.ReadAll(io.LimitReader(src, service.MaxUploadSizeBytes+1))
	if err != nil {
		return nil, models.NewValidationError("Unable to read uploaded file")
	}

	return &service.UploadInput{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}, nil
}
