package interceptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	MsgNetwork         = "Network error: API not reachable."
	MsgBadRequest      = "Bad request."
	MsgSessionExpired  = "Session expired. Please sign in again."
	MsgEmailUnverified = "Email not verified. Check your inbox."
	MsgNotFound        = "Resource not found."
	MsgTooManyRequests = "Too many requests. Please try again later."
	MsgServerError     = "Server error. Please try again later."

	fieldErrorSeparator = " • "
)

// MessageFor maps a failed response onto the text shown to the user. body is
// the raw response body and may be empty or non-JSON.
func MessageFor(status int, body []byte) string {
	serverMsg := ServerMessage(body)

	switch {
	case status == 0:
		return MsgNetwork
	case status == http.StatusBadRequest:
		return orDefault(serverMsg, MsgBadRequest)
	case status == http.StatusUnauthorized:
		return MsgSessionExpired
	case status == http.StatusForbidden:
		if strings.Contains(strings.ToLower(serverMsg), "not verified") {
			return MsgEmailUnverified
		}
		return orDefault(serverMsg, statusText(status))
	case status == http.StatusNotFound:
		return MsgNotFound
	case status == http.StatusUnprocessableEntity:
		if fields := FieldErrors(body); len(fields) > 0 {
			return strings.Join(fields, fieldErrorSeparator)
		}
	case status == http.StatusTooManyRequests:
		return MsgTooManyRequests
	case status >= 500:
		return MsgServerError
	}
	return orDefault(serverMsg, statusText(status))
}

func statusText(status int) string {
	return fmt.Sprintf("Error %d", status)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// ServerMessage pulls the backend's own message out of a JSON error body:
// "message" (string or list of strings), then "error".
func ServerMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{payload.Message, payload.Error} {
		if len(raw) == 0 {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
		var list []string
		if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
			return strings.Join(list, fieldErrorSeparator)
		}
	}
	return ""
}

// FieldErrors flattens the field errors of a validation response into
// "path: message" strings, walking nested objects and arrays in document
// order. The errors are read from the "errors" key, or from the whole body
// when it is a bare field object with neither "message" nor "error".
func FieldErrors(body []byte) []string {
	var payload map[string]json.RawMessage
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &payload) != nil {
		return nil
	}
	src, ok := payload["errors"]
	if !ok {
		_, hasMessage := payload["message"]
		_, hasError := payload["error"]
		if hasMessage || hasError {
			return nil
		}
		src = body
	}
	if len(src) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(src))
	var out []string
	if err := flatten(dec, "", &out); err != nil {
		return nil
	}
	return out
}

// flatten consumes exactly one JSON value from dec.
func flatten(dec *json.Decoder, path string, out *[]string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := keyTok.(string)
				child := key
				if path != "" {
					child = path + "." + key
				}
				if err := flatten(dec, child, out); err != nil {
					return err
				}
			}
		case '[':
			for dec.More() {
				if err := flatten(dec, path, out); err != nil {
					return err
				}
			}
		}
		// closing delimiter
		_, err := dec.Token()
		return err
	case string:
		if v == "" {
			return nil
		}
		if path == "" {
			*out = append(*out, v)
		} else {
			*out = append(*out, path+": "+v)
		}
	}
	return nil
}
