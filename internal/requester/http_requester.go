package requester

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/logger"
	"go.uber.org/zap"
)

// HTTPRequester handles both request building and execution for one collaborating service
type HTTPRequester struct {
	client         *http.Client
	serviceCfg     *config.EndpointConfig
	authMgr        AuthManager
	onUnauthorized func()
}

// NewHTTPRequester creates a requester for the service at serviceCfg.
// A nil client gets NewHTTPClient with the default timeout.
func NewHTTPRequester(client *http.Client, serviceCfg *config.EndpointConfig, authMgr AuthManager) *HTTPRequester {
	if client == nil {
		client = NewHTTPClient(config.DefaultRequestTimeout, nil)
	}
	if authMgr == nil {
		authMgr = NoAuthManager{}
	}
	return &HTTPRequester{
		client:     client,
		serviceCfg: serviceCfg,
		authMgr:    authMgr,
	}
}

// WithAuth returns a copy of the requester that authenticates with mgr.
func (r *HTTPRequester) WithAuth(mgr AuthManager) *HTTPRequester {
	cp := *r
	if mgr == nil {
		mgr = NoAuthManager{}
	}
	cp.authMgr = mgr
	return &cp
}

// OnUnauthorized registers fn to run whenever an authenticated request comes back 401.
func (r *HTTPRequester) OnUnauthorized(fn func()) *HTTPRequester {
	r.onUnauthorized = fn
	return r
}

// BuildRouteExecutor creates a function that can execute requests for a specific route
func (r *HTTPRequester) BuildRouteExecutor(route *RouteConfig) (RouteExecutor, error) {
	if route == nil {
		return nil, errors.New("route config is nil")
	}
	builder := NewHTTPRequestBuilder(r.serviceCfg, r.authMgr, route)

	return func(ctx context.Context, params map[string]interface{}) (*Response, error) {
		req, err := builder.BuildRequest(ctx, params)
		if err != nil {
			return nil, err
		}
		logger.Debug("request route",
			zap.String("method", req.Method),
			zap.String("url", req.URL),
			zap.String("request_id", req.RequestID))

		resp, err := r.execute(req)
		if err != nil {
			logger.Warn("failed to execute request", zap.String("request_id", req.RequestID), zap.Error(err))
			return nil, err
		}

		if resp.StatusCode == http.StatusUnauthorized && resp.Authenticated && r.onUnauthorized != nil {
			logger.Info("authenticated request rejected, clearing session", zap.String("url", req.URL))
			r.onUnauthorized()
		}
		return resp, nil
	}, nil
}

// Call executes route and decodes a 2xx JSON body into out (if non-nil).
// Non-2xx responses become *HTTPError and transport failures *NetworkError.
func (r *HTTPRequester) Call(ctx context.Context, route *RouteConfig, params map[string]interface{}, out interface{}) error {
	exec, err := r.BuildRouteExecutor(route)
	if err != nil {
		return err
	}
	resp, err := exec(ctx, params)
	if err != nil {
		return err
	}
	if err := CheckResponse(resp); err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", route.Path, err)
	}
	return nil
}

// execute performs the actual HTTP request execution
func (r *HTTPRequester) execute(req *Request) (resp *Response, err error) {
	httpReq := req.HttpRequest

	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return &Response{
		StatusCode:    httpResp.StatusCode,
		Body:          bodyBytes,
		Headers:       httpResp.Header,
		Authenticated: httpReq.Header.Get(authHeaderName) != "",
	}, nil
}
