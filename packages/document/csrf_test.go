package document

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/fetchclient/packages/client"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFToken(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		want    string
		wantErr error
	}{
		{
			name: "head meta tag",
			page: `<!doctype html><html><head><meta charset="utf-8"><meta name="csrf-token" content="abc123"></head><body></body></html>`,
			want: "abc123",
		},
		{
			name: "first tag wins",
			page: `<html><head><meta name="csrf-token" content="first"><meta name="csrf-token" content="second"></head></html>`,
			want: "first",
		},
		{
			name: "fragment without head",
			page: `<meta name="csrf-token" content="frag">`,
			want: "frag",
		},
		{
			name: "tag without content",
			page: `<meta name="csrf-token">`,
			want: "",
		},
		{
			name:    "missing tag",
			page:    `<html><head><meta name="csrf-param" content="authenticity_token"></head></html>`,
			wantErr: ErrCSRFTokenNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CSRFToken(strings.NewReader(tt.page))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSRFTokenFromResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><meta name="csrf-token" content="from-server"></head></html>`))
	}))
	defer server.Close()

	logger, _ := test.NewNullLogger()
	c := client.New(client.WithLogger(logger), client.WithOrigin(server.URL))
	u, err := c.ResolveURL("/", nil)
	require.NoError(t, err)

	result, err := c.Request(context.Background(), http.MethodGet, u, client.Headers{"Accept": "text/html"}, nil)
	require.NoError(t, err)
	require.True(t, result.Succeeded())

	token, err := CSRFTokenFromResponse(result.Payload())
	require.NoError(t, err)
	assert.Equal(t, "from-server", token)
}
