// Package response interprets the JSON bodies returned by the CSRS tools.
package response

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// ServiceResponse is the parsed body of a service call.
// A body that is not JSON yields the zero value.
type ServiceResponse struct {
	Raw    interface{}
	Error  string
	Result interface{}

	body []byte
}

// Parsed reports whether the body was valid JSON
func (r ServiceResponse) Parsed() bool {
	return r.Raw != nil
}

func (r ServiceResponse) HasError() bool {
	return r.Error != ""
}

// Interpret parses body. An Errors.Msg member makes the response an error,
// anything else is a result.
func Interpret(body []byte) ServiceResponse {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return ServiceResponse{}
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil || v == nil {
		return ServiceResponse{}
	}

	if msg, ok := errorMessage(v); ok {
		return ServiceResponse{Raw: v, Error: msg, body: body}
	}
	return ServiceResponse{Raw: v, Result: v, body: body}
}

func errorMessage(v interface{}) (string, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return "", false
	}
	errs, ok := obj["Errors"].(map[string]interface{})
	if !ok {
		return "", false
	}
	msg, ok := errs["Msg"]
	if !ok || msg == nil {
		return "", false
	}
	s, ok := msg.(string)
	if !ok {
		s = fmt.Sprint(msg)
	}
	if s == "" {
		s = "the service reported an error without a message"
	}
	return s, true
}

// Field returns a top level scalar of the result as a string.
func (r ServiceResponse) Field(key string) (string, bool) {
	obj, ok := r.Result.(map[string]interface{})
	if !ok {
		return "", false
	}
	v, ok := obj[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool, float64:
		return fmt.Sprint(t), true
	}
	return "", false
}

// Indented re-indents the original body, keeping the service's key order.
func (r ServiceResponse) Indented() (string, error) {
	if len(r.body) == 0 {
		return Pretty(r.Raw)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.body, "", "    "); err != nil {
		return "", fmt.Errorf("failed to indent result: %w", err)
	}
	return buf.String(), nil
}

// Pretty renders v as indented JSON
func Pretty(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to render result: %w", err)
	}
	return string(b), nil
}
