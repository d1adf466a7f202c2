package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeroo-ai/leeroo/internal/common/apperrors"
	"github.com/leeroo-ai/leeroo/internal/common/logtrace"
)

type staticConfig string

func (c staticConfig) GetServerURL() string { return string(c) }

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/submit_workflow/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(staticConfig(server.URL + "/api"))
	body, err := client.PostJSON(context.Background(), "/submit_workflow/", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestRequestIDFromContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get(RequestIDHeader))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx := logtrace.WithRequestID(context.Background(), "req-42")
	_, err := NewClient(staticConfig(server.URL)).PostJSON(ctx, "/x/", []byte(`{}`))
	require.NoError(t, err)
}

func TestPostFormURLEncoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "k1", r.PostForm.Get("api_key"))
		_, _ = w.Write([]byte(`{"user_id":"u1"}`))
	}))
	defer server.Close()

	form := url.Values{"api_key": {"k1"}}
	body, err := NewClient(staticConfig(server.URL)).PostForm(context.Background(), "/authenticate/", form, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"u1"}`, string(body))
}

func TestPostFormMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "demo", r.MultipartForm.Value["workflow_name"][0])

		f, hdr, err := r.FormFile("seed_data")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "seed.json", hdr.Filename)
		assert.Equal(t, "application/octet-stream", hdr.Header.Get("Content-Type"))
		content, _ := io.ReadAll(f)
		assert.Equal(t, `[{"query":"q","response":"r"}]`, string(content))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	file := &FilePart{
		FieldName: "seed_data",
		FileName:  "seed.json",
		Content:   strings.NewReader(`[{"query":"q","response":"r"}]`),
	}
	_, err := NewClient(staticConfig(server.URL)).PostForm(context.Background(), "/initialize_workflow_configs/",
		url.Values{"workflow_name": {"demo"}}, file)
	require.NoError(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestPostFormUnreadableFile(t *testing.T) {
	client := NewClient(staticConfig("http://127.0.0.1:1"))
	_, err := client.PostForm(context.Background(), "/x/", url.Values{}, &FilePart{
		FieldName: "seed_data",
		FileName:  "seed.json",
		Content:   failingReader{},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadContent)
	assert.Equal(t, apperrors.KindFilesystem, apperrors.KindOf(err))
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"bad budget"}`, "bad budget"},
		{"fastapi detail", http.StatusUnprocessableEntity, `{"detail":"field required"}`, "field required"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body"]}]}`, `[{"loc":["body"]}]`},
		{"not found", http.StatusNotFound, ``, "server doesn't implement this endpoint"},
		{"plain text", http.StatusInternalServerError, "boom\n", "boom"},
		{"empty body", http.StatusBadGateway, ``, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(staticConfig(server.URL)).PostJSON(context.Background(), "/x/", []byte(`{}`))
			require.Error(t, err)
			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.message, httpErr.Message)
			assert.Equal(t, tt.body, string(httpErr.Body))
		})
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	_, err := NewClient(staticConfig(serverURL)).PostJSON(context.Background(), "/x/", []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, apperrors.KindTransport, apperrors.KindOf(err))
}

func TestInvalidServerURL(t *testing.T) {
	_, err := NewClient(staticConfig("not a url")).PostJSON(context.Background(), "/x/", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidServerURL)
}

func TestTestHTTPClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/kill_workflow/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"workflow_runnning_state_id":"run-1"}`, string(body))
		_, _ = w.Write([]byte(`{"killed":true}`))
	})

	client := NewTestClient(staticConfig("http://leeroo.test"), mux)
	body, err := client.PostJSON(context.Background(), "/kill_workflow/", []byte(`{"workflow_runnning_state_id":"run-1"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"killed":true}`, string(body))

	_, err = client.PostForm(context.Background(), "/missing/", url.Values{"a": {"b"}}, nil)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestDisableCertValidation(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	_, err := NewClient(staticConfig(server.URL)).PostJSON(context.Background(), "/x/", []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)

	client := NewClient(staticConfig(server.URL), ClientOptions{DisableCertValidation: true})
	body, err := client.PostJSON(context.Background(), "/x/", []byte(`{}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}
