package qrimage

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := NewRenderer(0).Render([]byte(`{"token":"abc","office_id":1}`))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, dataURLPrefix))

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out, dataURLPrefix))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}
