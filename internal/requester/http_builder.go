package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/brizzai/hotel-console/internal/config"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// HTTPRequestBuilder turns a route and its params into an *http.Request
type HTTPRequestBuilder struct {
	serviceCfg  *config.EndpointConfig
	authMgr     AuthManager
	routeConfig *RouteConfig
}

// NewHTTPRequestBuilder creates a new HTTPRequestBuilder
func NewHTTPRequestBuilder(serviceCfg *config.EndpointConfig, authMgr AuthManager, routeConfig *RouteConfig) *HTTPRequestBuilder {
	if authMgr == nil {
		authMgr = NoAuthManager{}
	}
	return &HTTPRequestBuilder{
		serviceCfg:  serviceCfg,
		authMgr:     authMgr,
		routeConfig: routeConfig,
	}
}

// BuildRequest builds a request from the route and parameters
func (b *HTTPRequestBuilder) BuildRequest(ctx context.Context, params map[string]interface{}) (*Request, error) {
	if b.routeConfig == nil {
		return nil, fmt.Errorf("route config is nil")
	}
	if b.serviceCfg == nil {
		return nil, fmt.Errorf("endpoint config is nil")
	}
	method := strings.ToUpper(b.routeConfig.Method)
	if method == "" {
		method = http.MethodGet
	}

	rest := make(map[string]interface{}, len(params))
	for k, v := range params {
		rest[k] = v
	}

	rawURL, err := b.buildURL(b.routeConfig.Path, rest)
	if err != nil {
		return nil, err
	}

	body, contentType, err := b.createRequestBody(method, rest)
	if err != nil {
		return nil, fmt.Errorf("failed to create request body: %w", err)
	}

	rawURL = b.addQueryParams(rawURL, rest)

	headers := make(map[string]string)
	for k, v := range b.serviceCfg.Headers {
		headers[k] = v
	}
	for k, v := range b.routeConfig.Headers {
		headers[k] = v
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)

	if err := b.authMgr.ApplyAuth(httpReq); err != nil {
		return nil, fmt.Errorf("failed to apply authentication: %w", err)
	}

	return &Request{
		URL:         rawURL,
		Method:      method,
		Body:        body,
		Headers:     headers,
		ContentType: contentType,
		RequestID:   requestID,
		HttpRequest: httpReq,
	}, nil
}

// buildURL joins the base URL with the route path and fills "{name}" placeholders,
// removing the consumed params.
func (b *HTTPRequestBuilder) buildURL(path string, params map[string]interface{}) (string, error) {
	full := strings.TrimSuffix(b.serviceCfg.BaseURL, "/") + path

	for key, value := range params {
		placeholder := "{" + key + "}"
		if !strings.Contains(full, placeholder) {
			continue
		}
		full = strings.ReplaceAll(full, placeholder, url.PathEscape(fmt.Sprintf("%v", value)))
		delete(params, key)
	}

	if i := strings.Index(full, "{"); i >= 0 && strings.Contains(full[i:], "}") {
		return "", fmt.Errorf("missing path parameter in %s", full)
	}
	return full, nil
}

func (b *HTTPRequestBuilder) addQueryParams(baseURL string, params map[string]interface{}) string {
	if len(params) == 0 {
		return baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	q := u.Query()
	for key, value := range params {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		q.Set(key, fmt.Sprintf("%v", value))
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func (b *HTTPRequestBuilder) createRequestBody(method string, params map[string]interface{}) (io.Reader, string, error) {
	if method == http.MethodGet {
		return nil, "", nil
	}

	if len(b.routeConfig.MethodConfig.FormFields) > 0 {
		return b.createMultipartBody(params)
	}

	body, ok := params["body"]
	if !ok {
		return nil, "", nil
	}
	delete(params, "body")

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewBuffer(jsonData), "application/json", nil
}

// createMultipartBody writes every configured form field; values that are not
// strings are JSON encoded, which is how the listing services expect their
// "hotel" and "room" parts.
func (b *HTTPRequestBuilder) createMultipartBody(params map[string]interface{}) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := append([]string(nil), b.routeConfig.MethodConfig.FormFields...)
	sort.Strings(fields)
	for _, field := range fields {
		value, exists := params[field]
		if !exists {
			continue
		}
		delete(params, field)

		var text string
		switch v := value.(type) {
		case *FormFile:
			if err := writeFilePart(writer, field, v); err != nil {
				return nil, "", err
			}
			continue
		case string:
			text = v
		default:
			data, err := json.Marshal(v)
			if err != nil {
				return nil, "", fmt.Errorf("failed to marshal form field %s: %w", field, err)
			}
			text = string(data)
		}
		if err := writer.WriteField(field, text); err != nil {
			return nil, "", fmt.Errorf("failed to write form field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, field string, file *FormFile) error {
	part, err := writer.CreateFormFile(field, file.Filename)
	if err != nil {
		return fmt.Errorf("failed to create file part %s: %w", field, err)
	}
	if file.Content == nil {
		return nil
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return fmt.Errorf("failed to write file part %s: %w", field, err)
	}
	return nil
}
