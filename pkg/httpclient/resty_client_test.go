package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedObservation struct {
	operation string
	method    string
	status    int
	err       error
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []recordedObservation
}

func (f *fakeObserver) ObserveRequest(operation, method string, status int, _ time.Duration, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, recordedObservation{operation: operation, method: method, status: status, err: err})
}

func TestRequestSendsJSONBodyAndParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/expenses/expenses", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "static", r.Header.Get("X-Client"))
		assert.NotEmpty(t, r.Header.Get(HeaderCorrelationID))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"amount":10,"date":"2024-01-01"}`, string(raw))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(` {"id":"e1"} `))
	}))
	defer srv.Close()

	obs := &fakeObserver{}
	client := NewRestyClient(Options{
		BaseURL:  srv.URL + "/",
		Timeout:  2 * time.Second,
		Headers:  map[string]string{"X-Client": "static"},
		Observer: obs,
	})

	body, err := client.Request(context.Background(), "/expenses/expenses", RequestOptions{
		Method:    http.MethodPost,
		Body:      map[string]any{"amount": 10, "date": "2024-01-01"},
		Operation: "post_expense",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"e1"}`, string(body))

	require.Len(t, obs.seen, 1)
	assert.Equal(t, "post_expense", obs.seen[0].operation)
	assert.Equal(t, http.StatusOK, obs.seen[0].status)
	assert.NoError(t, obs.seen[0].err)
}

func TestRequestPreservesQueryString(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewRestyClient(Options{BaseURL: srv.URL})
	_, err := client.Request(context.Background(), "/expenses/expenses?sortDate=true&sortDesc=true&user=u@x.com&tag=source:bank-statement", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sortDate=true&sortDesc=true&user=u@x.com&tag=source:bank-statement", gotQuery)
}

func TestRequestDefaultsToGetWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		assert.Empty(t, raw)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewRestyClient(Options{BaseURL: srv.URL})
	_, err := client.Request(context.Background(), "/expenses/settings?user=a", RequestOptions{})
	require.NoError(t, err)
}

func TestRequestCallerHeadersOverrideCorrelationID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fixed-id", r.Header.Get(HeaderCorrelationID))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewRestyClient(Options{BaseURL: srv.URL})
	_, err := client.Request(context.Background(), "/x", RequestOptions{
		Headers: map[string]string{HeaderCorrelationID: "fixed-id"},
	})
	require.NoError(t, err)
}

func TestRequestEmptyBodyIsNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewRestyClient(Options{BaseURL: srv.URL})
	body, err := client.Request(context.Background(), "/expenses/expenses/abc", RequestOptions{Method: http.MethodDelete})
	require.NoError(t, err)
	assert.Equal(t, "null", string(body))
}

func TestRequestNon2xxReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"code":"not-found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	obs := &fakeObserver{}
	client := NewRestyClient(Options{BaseURL: srv.URL, Observer: obs})
	_, err := client.Request(context.Background(), "/expenses/expenses/missing", RequestOptions{Operation: "get"})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "/expenses/expenses/missing", statusErr.Path)
	assert.Contains(t, statusErr.Body, "not-found")
	assert.Equal(t, "http GET /expenses/expenses/missing: status 404", err.Error())
	assert.NotContains(t, err.Error(), "not-found", "response text must stay out of the error string")
	assert.Equal(t, http.StatusNotFound, StatusCode(err))

	require.Len(t, obs.seen, 1)
	assert.Equal(t, http.StatusNotFound, obs.seen[0].status)
	assert.Error(t, obs.seen[0].err)
}

func TestRequestHTMLErrorPageExtractsTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html><head><title> 502 Bad Gateway </title></head><body>nginx</body></html>`))
	}))
	defer srv.Close()

	client := NewRestyClient(Options{BaseURL: srv.URL})
	_, err := client.Request(context.Background(), "/expenses/settings", RequestOptions{})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "502 Bad Gateway", statusErr.Title)
	assert.Contains(t, err.Error(), "(502 Bad Gateway)")
	assert.NotContains(t, err.Error(), "nginx")
}

func TestRequestMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"broken":`))
	}))
	defer srv.Close()

	client := NewRestyClient(Options{BaseURL: srv.URL})
	_, err := client.Request(context.Background(), "/expenses/settings", RequestOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedJSON)
	assert.Equal(t, 0, StatusCode(err))
}

func TestRequestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	obs := &fakeObserver{}
	client := NewRestyClient(Options{BaseURL: url, Timeout: time.Second, Observer: obs})
	_, err := client.Request(context.Background(), "/expenses/settings", RequestOptions{Operation: "get_settings"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http GET /expenses/settings")

	require.Len(t, obs.seen, 1)
	assert.Equal(t, 0, obs.seen[0].status)
}

func TestRequestMarshalFailure(t *testing.T) {
	client := NewRestyClient(Options{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Request(context.Background(), "/x", RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]any{"bad": make(chan int)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal")
}

func TestUploadFileSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/expenses/import/uploads/revolut", r.URL.Path)
		assert.Equal(t, "user=u@x.com", r.URL.RawQuery)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer file.Close()
			raw, _ := io.ReadAll(file)
			assert.Equal(t, "date,amount\n", string(raw))
			assert.Equal(t, "statement.csv", header.Filename)
		}
		_, _ = w.Write([]byte(`{"monthId":"m1"}`))
	}))
	defer srv.Close()

	client := NewRestyClient(Options{BaseURL: srv.URL})
	body, err := client.UploadFile(context.Background(), "/expenses/import/uploads/revolut?user=u@x.com", File{
		Name:   "statement.csv",
		Reader: strings.NewReader("date,amount\n"),
	}, RequestOptions{Operation: "post_expenses_file"})
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "m1", out["monthId"])
}

func TestUploadFileRejectsNilReader(t *testing.T) {
	client := NewRestyClient(Options{BaseURL: "http://127.0.0.1:1"})
	_, err := client.UploadFile(context.Background(), "/x", File{Name: "a"}, RequestOptions{})
	require.Error(t, err)
}

func TestBodySnippetTruncates(t *testing.T) {
	got := bodySnippet([]byte(strings.Repeat("a", maxBodySnippetBytes+100)))
	assert.Len(t, got, maxBodySnippetBytes)
	assert.Empty(t, bodySnippet(nil))
}
