package requester

import (
	"context"
	"io"
	"net/http"
)

// RouteExecutor is a function that can execute a route with params
type RouteExecutor func(ctx context.Context, params map[string]interface{}) (*Response, error)

// RouteConfig holds the configuration for a specific route of a collaborating service.
//
// Params passed to an executor are consumed in this order: "{name}" placeholders in Path,
// the "body" key (JSON body), MethodConfig.FormFields (multipart body), and whatever is
// left becomes the query string.
type RouteConfig struct {
	Path        string            `json:"path"`
	Method      string            `json:"method"`
	Description string            `json:"description,omitempty"`
	Headers     map[string]string `json:"headers"`
	// Method specific configurations
	MethodConfig MethodConfig `json:"method_config"`
}

// MethodConfig holds method-specific configurations
type MethodConfig struct {
	// For multipart/form-data
	FormFields []string `json:"form_fields,omitempty"`
	// JSON body properties the caller sends, used by the contract check
	BodyFields []string `json:"body_fields,omitempty"`
	// Query parameters the caller sends, used by the contract check
	QueryParams []string `json:"query_params,omitempty"`
}

// FormFile is a file part of a multipart body. Pass it as the value of a
// MethodConfig.FormFields entry.
type FormFile struct {
	Filename string
	Content  io.Reader
}

// Request represents a fully built HTTP request
type Request struct {
	URL         string
	Method      string
	Body        io.Reader
	Headers     map[string]string
	ContentType string
	RequestID   string
	HttpRequest *http.Request // The actual HTTP request
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	// Authenticated reports whether the request carried a bearer token.
	Authenticated bool
}
