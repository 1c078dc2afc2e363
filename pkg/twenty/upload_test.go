package twenty

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadImage(t *testing.T) {
	imageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-jpeg-bytes"))
	}))
	t.Cleanup(imageSrv.Close)

	crmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graphql", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var operations struct {
			Query     string `json:"query"`
			Variables struct {
				File       any    `json:"file"`
				FileFolder string `json:"fileFolder"`
			} `json:"variables"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("operations")), &operations))
		assert.Equal(t, "PersonPicture", operations.Variables.FileFolder)
		assert.Nil(t, operations.Variables.File)
		assert.JSONEq(t, `{"0":["variables.file"]}`, r.FormValue("map"))

		file, header, err := r.FormFile("0")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "jane-doe-profile.jpg", header.Filename)
		blob, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake-jpeg-bytes", string(blob))

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"uploadImage": map[string]any{"path": "images/abc123.jpg"},
			},
		})
	}))
	t.Cleanup(crmSrv.Close)

	c := NewClient(crmSrv.URL, "test-token")
	path := c.UploadImage(context.Background(), imageSrv.URL+"/avatar.jpg", "jane-doe-profile.jpg")
	assert.Equal(t, "images/abc123.jpg", path)
}

func TestUploadImageFailuresReturnEmpty(t *testing.T) {
	imageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-jpeg-bytes"))
	}))
	t.Cleanup(imageSrv.Close)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upload rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "graphql errors",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"errors": []map[string]any{{"message": "file too large"}},
				})
			},
		},
		{
			name: "no path in response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{"uploadImage": map[string]any{}},
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crmSrv := httptest.NewServer(tt.handler)
			t.Cleanup(crmSrv.Close)

			c := NewClient(crmSrv.URL, "test-token")
			path := c.UploadImage(context.Background(), imageSrv.URL+"/avatar.jpg", "x.jpg")
			assert.Equal(t, "", path)
		})
	}
}

func TestUploadImageSourceFetchFails(t *testing.T) {
	imageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(imageSrv.Close)

	crmCalled := false
	crmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		crmCalled = true
	}))
	t.Cleanup(crmSrv.Close)

	c := NewClient(crmSrv.URL, "test-token")
	path := c.UploadImage(context.Background(), imageSrv.URL+"/missing.jpg", "x.jpg")
	assert.Equal(t, "", path)
	assert.False(t, crmCalled)
}

func TestUploadImageUnconfigured(t *testing.T) {
	c := NewClient("", "")
	assert.Equal(t, "", c.UploadImage(context.Background(), "https://example.com/a.jpg", "a.jpg"))
}
