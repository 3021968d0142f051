package csrf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/surfguard/core/csrf"
)

func TestIsSafeMethod(t *testing.T) {
	t.Parallel()

	for _, method := range []string{"GET", "HEAD", "OPTIONS", "TRACE", "get", "head"} {
		assert.True(t, csrf.IsSafeMethod(method), method)
	}
	for _, method := range []string{"POST", "PUT", "PATCH", "DELETE"} {
		assert.False(t, csrf.IsSafeMethod(method), method)
	}
}

func TestPolicy_ExemptMode(t *testing.T) {
	t.Parallel()

	p := csrf.NewPolicy(csrf.ModeExempt, false)
	p.Exempt("api.upload")
	p.ExemptPrefixes("/webhooks/")

	t.Run("unsafe methods checked by default", func(t *testing.T) {
		assert.True(t, p.RequiresValidation("POST", "/orders", "orders.create"))
		assert.True(t, p.RequiresValidation("DELETE", "/orders/1", "orders.delete"))
	})

	t.Run("safe methods never checked", func(t *testing.T) {
		assert.False(t, p.RequiresValidation("GET", "/orders", "orders.list"))
		assert.False(t, p.RequiresValidation("OPTIONS", "/orders", "orders.list"))
	})

	t.Run("exempt route identity skipped on every path", func(t *testing.T) {
		assert.False(t, p.RequiresValidation("POST", "/upload", "api.upload"))
		assert.False(t, p.RequiresValidation("POST", "/v2/upload", "api.upload"))
	})

	t.Run("prefix exemption matches by prefix not equality", func(t *testing.T) {
		assert.False(t, p.RequiresValidation("POST", "/webhooks/stripe", "hooks.stripe"))
		assert.False(t, p.RequiresValidation("POST", "/webhooks/", "hooks.index"))
		assert.True(t, p.RequiresValidation("POST", "/webhook", "hooks.other"))
	})
}

func TestPolicy_IncludeMode(t *testing.T) {
	t.Parallel()

	p := csrf.NewPolicy(csrf.ModeInclude, false)
	p.Include("account.update")

	assert.True(t, p.RequiresValidation("POST", "/account", "account.update"))
	assert.False(t, p.RequiresValidation("POST", "/other", "other.create"),
		"unmarked routes are exempt in include mode")
	assert.False(t, p.RequiresValidation("GET", "/account", "account.update"),
		"safe methods win over include markings")
}

func TestPolicy_Disabled(t *testing.T) {
	t.Parallel()

	p := csrf.NewPolicy(csrf.ModeExempt, true)
	assert.False(t, p.RequiresValidation("POST", "/orders", "orders.create"))
}

func TestNewPolicy_UnknownModeFallsBackToExempt(t *testing.T) {
	t.Parallel()

	p := csrf.NewPolicy(csrf.Mode("bogus"), false)
	assert.True(t, p.RequiresValidation("POST", "/orders", "orders.create"))
}
