package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxBodySnippetBytes = 512

// ErrMalformedJSON is wrapped when a successful response does not carry valid JSON.
var ErrMalformedJSON = errors.New("malformed json response")

// StatusError reports a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Title holds the <title> of an HTML error page, if any.
	Title string
	// Body is a truncated copy of the response body. Error() never includes it.
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("http %s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Title != "" {
		msg += " (" + e.Title + ")"
	}
	return msg
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func newStatusError(method, path string, status int, contentType string, body []byte) *StatusError {
	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Title:      htmlTitle(contentType, body),
		Body:       bodySnippet(body),
	}
}

// htmlTitle extracts the page title from gateway/proxy error pages.
func htmlTitle(contentType string, body []byte) string {
	if !strings.Contains(strings.ToLower(contentType), "html") && !looksLikeHTML(body) {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func looksLikeHTML(body []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(body))
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

func bodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxBodySnippetBytes {
		body = body[:maxBodySnippetBytes]
	}
	return strings.TrimSpace(string(body))
}
