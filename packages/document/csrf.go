package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/fetchclient/packages/client"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// CSRFMetaSelector matches the tag the token is rendered into.
const CSRFMetaSelector = `meta[name="csrf-token"]`

var ErrCSRFTokenNotFound = errors.New("csrf-token meta tag not found")

var csrfMeta = cascadia.MustCompile(CSRFMetaSelector)

// CSRFToken returns the content of the first csrf-token meta tag in the page.
func CSRFToken(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	node := cascadia.Query(doc, csrfMeta)
	if node == nil {
		return "", ErrCSRFTokenNotFound
	}

	for _, attr := range node.Attr {
		if attr.Key == "content" {
			return attr.Val, nil
		}
	}
	return "", nil
}

// CSRFTokenFromResponse reads the token from a fetched page.
func CSRFTokenFromResponse(resp *client.Response) (string, error) {
	return CSRFToken(bytes.NewReader(resp.Body))
}
