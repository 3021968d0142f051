package csrf

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
)

// maxBodyProbe caps how much of the request body is buffered while looking
// for a token. Anything larger than this cannot be a token-bearing form or
// JSON document worth probing in full.
const maxBodyProbe = 10 << 20 // 10MB, matches net/http's default form limit

// requestToken extracts the submitted token from the request, trying in
// order: the form field named field, the JSON body field "_csrf_token",
// and finally the header named header.
//
// The probe is best-effort: a body that is not parseable as a form or as
// JSON yields "not found" at that source rather than an error, so token
// absence always resolves to an auth decision downstream instead of a
// parse failure. The body is buffered and restored, leaving it readable
// in full for the application handler; bodies exceeding the probe cap are
// handed through untouched and only the header source is consulted.
func requestToken(r *http.Request, field, header string) string {
	body, complete := bufferBody(r)

	if complete {
		if token := formToken(r, field, body); token != "" {
			return token
		}
		if token := jsonToken(body); token != "" {
			return token
		}
	}
	return r.Header.Get(header)
}

// bufferBody reads up to maxBodyProbe bytes of the request body and replaces
// it with a reader replaying the buffered prefix followed by whatever remains
// unread. The boolean reports whether the whole body fit in the buffer; only
// a complete buffer is safe to probe.
func bufferBody(r *http.Request) ([]byte, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, true
	}

	orig := r.Body
	body, err := io.ReadAll(io.LimitReader(orig, maxBodyProbe))
	if err != nil || len(body) == maxBodyProbe {
		// The body may extend past the buffer. Replay the prefix and keep
		// the unread remainder attached so the handler sees every byte.
		r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), orig))
		return nil, false
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, true
}

// formToken probes url-encoded and multipart bodies for the token field.
// Parse errors are swallowed; the body is rewound afterwards so later
// probes and the handler see it untouched.
func formToken(r *http.Request, field string, body []byte) string {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}

	defer func() {
		if body != nil {
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
	}()

	switch {
	case ct == "application/x-www-form-urlencoded":
		_ = r.ParseForm()
		return r.PostForm.Get(field)
	case strings.HasPrefix(ct, "multipart/"):
		_ = r.ParseMultipartForm(maxBodyProbe)
		if r.MultipartForm != nil {
			if values := r.MultipartForm.Value[field]; len(values) > 0 {
				return values[0]
			}
		}
	}
	return ""
}

// jsonToken probes the buffered body for a "_csrf_token" member. Malformed
// JSON is treated as "no token found".
func jsonToken(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	raw, ok := payload[jsonTokenField]
	if !ok {
		return ""
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return ""
	}
	return token
}
