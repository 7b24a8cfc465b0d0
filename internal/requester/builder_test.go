package requester_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/requester"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthManager struct {
	applyAuthFunc func(*http.Request) error
}

func (m *mockAuthManager) ApplyAuth(req *http.Request) error {
	return m.applyAuthFunc(req)
}

func TestHTTPRequestBuilder_BuildRequest(t *testing.T) {
	tests := []struct {
		name         string
		params       map[string]interface{}
		config       *config.EndpointConfig
		authManager  requester.AuthManager
		routeConfig  *requester.RouteConfig
		wantErr      bool
		checkRequest func(t *testing.T, req *requester.Request)
	}{
		{
			name:   "Simple GET Request",
			params: map[string]interface{}{"hotelName": "Grand"},
			config: &config.EndpointConfig{
				BaseURL: "http://api.example.com/api/v1/hotels/",
				Headers: map[string]string{"X-Tenant": "acme"},
			},
			routeConfig: &requester.RouteConfig{Method: "GET", Path: "/public/search"},
			authManager: &mockAuthManager{
				applyAuthFunc: func(req *http.Request) error {
					req.Header.Set("Authorization", "Bearer test-token")
					return nil
				},
			},
			checkRequest: func(t *testing.T, req *requester.Request) {
				assert.Equal(t, "http://api.example.com/api/v1/hotels/public/search?hotelName=Grand", req.HttpRequest.URL.String())
				assert.Equal(t, "GET", req.HttpRequest.Method)
				assert.Equal(t, "acme", req.HttpRequest.Header.Get("X-Tenant"))
				assert.Equal(t, "Bearer test-token", req.HttpRequest.Header.Get("Authorization"))
				assert.Equal(t, req.RequestID, req.HttpRequest.Header.Get("X-Request-Id"))
				assert.Nil(t, req.Body)
			},
		},
		{
			name: "Path placeholder with query",
			params: map[string]interface{}{
				"id":                 42,
				"cancellationReason": "plans changed",
			},
			config:      &config.EndpointConfig{BaseURL: "http://api.example.com"},
			routeConfig: &requester.RouteConfig{Method: "put", Path: "/cancel/{id}"},
			checkRequest: func(t *testing.T, req *requester.Request) {
				assert.Equal(t, "PUT", req.Method)
				assert.Equal(t, "/cancel/42", req.HttpRequest.URL.Path)
				assert.Equal(t, "plans changed", req.HttpRequest.URL.Query().Get("cancellationReason"))
			},
		},
		{
			name:        "Missing path parameter",
			params:      map[string]interface{}{},
			config:      &config.EndpointConfig{BaseURL: "http://api.example.com"},
			routeConfig: &requester.RouteConfig{Method: "DELETE", Path: "/delete/{id}"},
			wantErr:     true,
		},
		{
			name: "Multipart form field",
			params: map[string]interface{}{
				"hotel": map[string]interface{}{"hotelName": "Grand", "rating": 4},
			},
			config: &config.EndpointConfig{BaseURL: "http://api.example.com"},
			routeConfig: &requester.RouteConfig{
				Method:       "POST",
				Path:         "/create",
				MethodConfig: requester.MethodConfig{FormFields: []string{"hotel"}},
			},
			checkRequest: func(t *testing.T, req *requester.Request) {
				assert.True(t, strings.HasPrefix(req.ContentType, "multipart/form-data"))
				require.NoError(t, req.HttpRequest.ParseMultipartForm(1<<20))
				assert.JSONEq(t, `{"hotelName":"Grand","rating":4}`, req.HttpRequest.FormValue("hotel"))
				assert.Empty(t, req.HttpRequest.URL.RawQuery)
			},
		},
		{
			name: "Multipart file part",
			params: map[string]interface{}{
				"file": &requester.FormFile{Filename: "me.png", Content: strings.NewReader("PNGDATA")},
			},
			config: &config.EndpointConfig{BaseURL: "http://api.example.com"},
			routeConfig: &requester.RouteConfig{
				Method:       "POST",
				Path:         "/profile/upload-image",
				MethodConfig: requester.MethodConfig{FormFields: []string{"file"}},
			},
			checkRequest: func(t *testing.T, req *requester.Request) {
				require.NoError(t, req.HttpRequest.ParseMultipartForm(1<<20))
				file, header, err := req.HttpRequest.FormFile("file")
				require.NoError(t, err)
				defer file.Close()
				assert.Equal(t, "me.png", header.Filename)
				data, err := io.ReadAll(file)
				require.NoError(t, err)
				assert.Equal(t, "PNGDATA", string(data))
			},
		},
		{
			name:        "Auth failure",
			config:      &config.EndpointConfig{BaseURL: "http://api.example.com"},
			routeConfig: &requester.RouteConfig{Method: "GET", Path: "/x"},
			authManager: &mockAuthManager{
				applyAuthFunc: func(*http.Request) error { return errors.New("no token") },
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := requester.NewHTTPRequestBuilder(tt.config, tt.authManager, tt.routeConfig)
			req, err := builder.BuildRequest(context.Background(), tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.checkRequest(t, req)
		})
	}
}

func TestHTTPRequestBuilder_DoesNotMutateParams(t *testing.T) {
	params := map[string]interface{}{"id": 7, "body": map[string]string{"a": "b"}}
	builder := requester.NewHTTPRequestBuilder(
		&config.EndpointConfig{BaseURL: "http://api.example.com"}, nil,
		&requester.RouteConfig{Method: "POST", Path: "/x/{id}"})

	req, err := builder.BuildRequest(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, params, 2)

	data, err := io.ReadAll(req.HttpRequest.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"b"}`, string(data))
}
