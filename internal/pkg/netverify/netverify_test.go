package netverify

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestVerify(t *testing.T) {
	permissive := New(false)
	strict := New(true)

	tests := []struct {
		name       string
		verifier   *Verifier
		registered *string
		caller     string
		valid      bool
		reason     string
	}{
		{"exact match", permissive, strPtr("203.0.113.7"), "203.0.113.7", true, ReasonMatched},
		{"mismatch", permissive, strPtr("203.0.113.7"), "203.0.113.8", false, ReasonMismatch},
		{"no cidr matching", permissive, strPtr("203.0.113.0/24"), "203.0.113.8", false, ReasonMismatch},
		{"case sensitive ipv6", permissive, strPtr("2001:db8::a"), "2001:DB8::A", false, ReasonMismatch},
		{"missing caller", permissive, strPtr("203.0.113.7"), "", false, ReasonNoAddress},
		{"unregistered permissive", permissive, nil, "198.51.100.1", true, ReasonNotConfigured},
		{"unregistered blank permissive", permissive, strPtr("  "), "", true, ReasonNotConfigured},
		{"unregistered strict", strict, nil, "198.51.100.1", false, ReasonNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.verifier.Verify(tt.registered, tt.caller)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestIsPublic(t *testing.T) {
	assert.True(t, IsPublic("8.8.8.8"))
	assert.True(t, IsPublic("2606:4700:4700::1111"))
	assert.False(t, IsPublic("10.0.0.1"))
	assert.False(t, IsPublic("172.16.5.4"))
	assert.False(t, IsPublic("192.168.1.1"))
	assert.False(t, IsPublic("127.0.0.1"))
	assert.False(t, IsPublic("::1"))
	assert.False(t, IsPublic("not-an-ip"))
}

func TestResolveCaller(t *testing.T) {
	t.Run("public x-real-ip wins", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("X-Real-IP", "8.8.4.4")
		r.Header.Set("X-Forwarded-For", "1.1.1.1")
		assert.Equal(t, "8.8.4.4", ResolveCaller(r))
	})

	t.Run("private x-real-ip falls through to forwarded", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("X-Real-IP", "172.18.0.3")
		r.Header.Set("X-Forwarded-For", "10.0.0.2, 9.9.9.9, 1.1.1.1")
		assert.Equal(t, "9.9.9.9", ResolveCaller(r))
	})

	t.Run("leftmost forwarded when none public", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("X-Forwarded-For", "10.0.0.2, 192.168.0.9")
		assert.Equal(t, "10.0.0.2", ResolveCaller(r))
	})

	t.Run("remote addr fallback", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		r.RemoteAddr = "203.0.113.50:51234"
		assert.Equal(t, "203.0.113.50", ResolveCaller(r))
	})
}
