package builder

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Params keeps the insertion order the service contract expects
type Params = orderedmap.OrderedMap[string, string]

func newParams() *Params {
	return orderedmap.New[string, string]()
}

// OutboundCall is one request to the service, either a SinglePointCall or a
// BatchCall.
type OutboundCall interface {
	Method() string
	Path() string
	ToolName() string
}

// SinglePointCall is a GET with an ordered, url-encoded query
type SinglePointCall struct {
	Tool    string
	URLPath string
	Query   *Params
}

func (c *SinglePointCall) Method() string   { return http.MethodGet }
func (c *SinglePointCall) Path() string     { return c.URLPath }
func (c *SinglePointCall) ToolName() string { return c.Tool }

// Get returns the query value for key, "" when absent
func (c *SinglePointCall) Get(key string) string {
	v, _ := c.Query.Get(key)
	return v
}

// Encode renders the query in insertion order. Empty values are kept.
func (c *SinglePointCall) Encode() string {
	return encode(c.Query)
}

// URL joins base with the path and the encoded query
func (c *SinglePointCall) URL(base string) string {
	return strings.TrimRight(base, "/") + c.URLPath + "?" + c.Encode()
}

func encode(p *Params) string {
	var b strings.Builder
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.Value))
	}
	return b.String()
}

// FilePart is the uploaded batch file
type FilePart struct {
	FieldName string
	FileName  string
	Content   []byte
	MimeType  string
}

// BatchCall is a multipart POST of ordered form fields followed by the file
type BatchCall struct {
	Tool    string
	URLPath string
	Fields  *Params
	File    FilePart

	// ResultFileName is where the pipeline stores the response body
	ResultFileName string
}

func (c *BatchCall) Method() string   { return http.MethodPost }
func (c *BatchCall) Path() string     { return c.URLPath }
func (c *BatchCall) ToolName() string { return c.Tool }

// Get returns the form field value for key, "" when absent
func (c *BatchCall) Get(key string) string {
	v, _ := c.Fields.Get(key)
	return v
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Body encodes the multipart payload and returns it with its content type.
func (c *BatchCall) Body() (string, *bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for pair := c.Fields.Oldest(); pair != nil; pair = pair.Next() {
		if err := w.WriteField(pair.Key, pair.Value); err != nil {
			return "", nil, fmt.Errorf("failed to write field %s: %w", pair.Key, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(c.File.FieldName), quoteEscaper.Replace(c.File.FileName)))
	h.Set("Content-Type", c.File.MimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(c.File.Content); err != nil {
		return "", nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("failed to close multipart body: %w", err)
	}
	return w.FormDataContentType(), buf, nil
}
