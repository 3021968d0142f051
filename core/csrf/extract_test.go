package csrf

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestToken_Form(t *testing.T) {
	t.Parallel()

	t.Run("urlencoded", func(t *testing.T) {
		form := url.Values{"_csrf_token": {"form-token"}, "name": {"widget"}}
		r := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		assert.Equal(t, "form-token", requestToken(r, "_csrf_token", "X-CSRFToken"))
	})

	t.Run("custom field name", func(t *testing.T) {
		form := url.Values{"my_token": {"custom-token"}}
		r := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		assert.Equal(t, "custom-token", requestToken(r, "my_token", "X-CSRFToken"))
	})

	t.Run("multipart", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("_csrf_token", "multipart-token"))
		require.NoError(t, mw.Close())

		r := httptest.NewRequest("POST", "/", &buf)
		r.Header.Set("Content-Type", mw.FormDataContentType())

		assert.Equal(t, "multipart-token", requestToken(r, "_csrf_token", "X-CSRFToken"))
	})
}

func TestRequestToken_JSON(t *testing.T) {
	t.Parallel()

	t.Run("token field present", func(t *testing.T) {
		body := `{"_csrf_token":"json-token","name":"widget"}`
		r := httptest.NewRequest("POST", "/", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")

		assert.Equal(t, "json-token", requestToken(r, "_csrf_token", "X-CSRFToken"))
	})

	t.Run("field name fixed regardless of cookie name", func(t *testing.T) {
		body := `{"_csrf_token":"json-token"}`
		r := httptest.NewRequest("POST", "/", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")

		assert.Equal(t, "json-token", requestToken(r, "renamed_cookie", "X-CSRFToken"))
	})

	t.Run("malformed JSON falls through to header", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"broken`))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("X-CSRFToken", "header-token")

		assert.Equal(t, "header-token", requestToken(r, "_csrf_token", "X-CSRFToken"))
	})

	t.Run("non-string token value ignored", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"_csrf_token":42}`))
		r.Header.Set("Content-Type", "application/json")

		assert.Empty(t, requestToken(r, "_csrf_token", "X-CSRFToken"))
	})
}

func TestRequestToken_Header(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("X-CSRFToken", "header-token")

	assert.Equal(t, "header-token", requestToken(r, "_csrf_token", "X-CSRFToken"))
}

func TestRequestToken_Precedence(t *testing.T) {
	t.Parallel()

	// Form beats header when both are present.
	form := url.Values{"_csrf_token": {"form-token"}}
	r := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-CSRFToken", "header-token")

	assert.Equal(t, "form-token", requestToken(r, "_csrf_token", "X-CSRFToken"))
}

func TestRequestToken_NotFound(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader("unrelated"))
	assert.Empty(t, requestToken(r, "_csrf_token", "X-CSRFToken"))
}

func TestRequestToken_OversizedBodyPassedThrough(t *testing.T) {
	t.Parallel()

	// A body past the probe cap is never buffered in full: the header is
	// the only source consulted, and the handler must still receive every
	// byte, not just the probed prefix.
	payload := strings.Repeat("a", maxBodyProbe+100)
	r := httptest.NewRequest("POST", "/", strings.NewReader(payload))
	r.Header.Set("Content-Type", "application/octet-stream")
	r.Header.Set("X-CSRFToken", "header-token")

	require.Equal(t, "header-token", requestToken(r, "_csrf_token", "X-CSRFToken"))

	rest, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.Len(t, rest, len(payload))
	assert.True(t, string(rest) == payload, "handler must see the complete body")
}

func TestRequestToken_OversizedBodyNotProbed(t *testing.T) {
	t.Parallel()

	// Even a well-formed form past the cap is skipped: probing a prefix
	// could misread the payload, so extraction falls through to the header.
	form := "_csrf_token=form-token&pad=" + strings.Repeat("a", maxBodyProbe)
	r := httptest.NewRequest("POST", "/", strings.NewReader(form))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assert.Empty(t, requestToken(r, "_csrf_token", "X-CSRFToken"))
}

func TestRequestToken_BodyRestored(t *testing.T) {
	t.Parallel()

	body := `{"_csrf_token":"json-token","payload":"data"}`
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	require.Equal(t, "json-token", requestToken(r, "_csrf_token", "X-CSRFToken"))

	// The handler downstream must still see the full body.
	rest, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(rest))
}
