package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
}

func objectSchema(props ...string) *openapi3.SchemaRef {
	s := &openapi3.Schema{Type: &openapi3.Types{"object"}, Properties: openapi3.Schemas{}}
	for _, p := range props {
		s.Properties[p] = stringSchema()
	}
	return &openapi3.SchemaRef{Value: s}
}

func testDoc() *openapi3.T {
	paths := openapi3.NewPaths()
	paths.Set("/api/v1/auth/login/send-otp", &openapi3.PathItem{
		Post: &openapi3.Operation{
			RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
				Content: openapi3.NewContentWithJSONSchemaRef(objectSchema("email")),
			}},
		},
	})
	paths.Set("/api/v1/hotels/public/search", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Parameters: openapi3.Parameters{
				{Value: &openapi3.Parameter{Name: "hotelName", In: openapi3.ParameterInQuery, Schema: stringSchema()}},
			},
		},
	})
	paths.Set("/api/v1/hotels/create", &openapi3.PathItem{
		Post: &openapi3.Operation{
			RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
				Content: openapi3.NewContentWithFormDataSchemaRef(objectSchema("hotel")),
			}},
		},
	})
	paths.Set("/api/v1/hotels/delete/{hotelId}", &openapi3.PathItem{
		Delete: &openapi3.Operation{},
	})
	return &openapi3.T{
		OpenAPI: "3.0.0",
		Info:    &openapi3.Info{Title: "Hotel Service", Version: "1.0"},
		Paths:   paths,
	}
}

func TestChecker_Check(t *testing.T) {
	routes := []*requester.RouteConfig{
		{Path: "/auth/login/send-otp", Method: "POST", MethodConfig: requester.MethodConfig{BodyFields: []string{"email", "captcha"}}},
		{Path: "/hotels/public/search", Method: "GET", MethodConfig: requester.MethodConfig{QueryParams: []string{"hotelName", "location"}}},
		{Path: "/hotels/create", Method: "POST", MethodConfig: requester.MethodConfig{FormFields: []string{"hotel"}}},
		{Path: "/hotels/delete/{id}", Method: "DELETE"},
		{Path: "/hotels/my-hotels", Method: "GET"},
	}

	c := &Checker{doc: testDoc()}
	report, err := c.Check("/api/v1", routes)
	require.NoError(t, err)

	want := []Finding{
		{Kind: MissingBodyField, Method: "POST", Path: "/auth/login/send-otp", Field: "captcha"},
		{Kind: MissingOperation, Method: "GET", Path: "/hotels/my-hotels"},
		{Kind: MissingQuery, Method: "GET", Path: "/hotels/public/search", Field: "location"},
	}
	if diff := cmp.Diff(want, report.Findings); diff != "" {
		t.Errorf("findings mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5, report.Checked)
	assert.False(t, report.OK())
	assert.Contains(t, report.String(), `missing-query-param "location"`)
}

func TestChecker_Exclusions(t *testing.T) {
	c := &Checker{
		doc: testDoc(),
		exclusions: &Exclusions{Routes: []RouteSelection{
			{Path: "/hotels/my-hotels"},
			{Path: "/hotels/create", Methods: []string{"put"}},
		}},
	}
	report, err := c.Check("/api/v1/", []*requester.RouteConfig{
		{Path: "/hotels/my-hotels", Method: "GET"},
		{Path: "/hotels/create", Method: "POST", MethodConfig: requester.MethodConfig{FormFields: []string{"hotel"}}},
	})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Checked)
}

func TestChecker_NoDocument(t *testing.T) {
	_, err := NewChecker().Check("", nil)
	assert.Error(t, err)
}

func TestChecker_ParseReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name: "openapi 3 yaml",
			input: `openapi: 3.0.0
info:
  title: Booking Service
  version: "1.0"
paths:
  /api/v1/bookings/my-bookings:
    get:
      responses:
        "200":
          description: ok
`,
		},
		{
			name: "swagger 2 json",
			input: `{
  "swagger": "2.0",
  "info": {"title": "Booking Service", "version": "1.0"},
  "basePath": "/api/v1",
  "paths": {
    "/bookings/my-bookings": {
      "get": {"responses": {"200": {"description": "ok"}}}
    }
  }
}`,
		},
		{
			name:    "no version field",
			input:   "info:\n  title: x\n",
			wantErr: true,
		},
		{
			name:    "unsupported openapi version",
			input:   "openapi: 4.0.0\npaths: {}\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			input:   "{{{",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			err := c.ParseReader(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			report, err := c.Check("/api/v1", []*requester.RouteConfig{{Path: "/bookings/my-bookings", Method: "GET"}})
			require.NoError(t, err)
			assert.True(t, report.OK(), report.String())
			assert.Equal(t, "Booking Service", report.Title)
		})
	}
}

func TestChecker_Init(t *testing.T) {
	dir := t.TempDir()
	specFile := filepath.Join(dir, "openapi.yaml")
	exFile := filepath.Join(dir, "exclusions.yaml")
	require.NoError(t, os.WriteFile(specFile, []byte("openapi: 3.0.0\ninfo:\n  title: Rooms\n  version: \"1\"\npaths: {}\n"), 0o600))
	require.NoError(t, os.WriteFile(exFile, []byte("routes:\n  - path: /rooms/my-rooms\n    methods: [GET]\n"), 0o600))

	c := NewChecker()
	require.NoError(t, c.Init(specFile, exFile))
	report, err := c.Check("/api/v1", []*requester.RouteConfig{{Path: "/rooms/my-rooms", Method: "GET"}})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Skipped)

	assert.Error(t, NewChecker().Init(filepath.Join(dir, "missing.yaml"), ""))
}
