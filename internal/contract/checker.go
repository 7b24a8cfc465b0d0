package contract

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/getkin/kin-openapi/openapi3"
)

// Check looks every route up under basePath (the path part of the service's
// base URL, e.g. /api/v1) and reports what the document lacks.
func (c *Checker) Check(basePath string, routes []*requester.RouteConfig) (*Report, error) {
	if c.doc == nil {
		return nil, errors.New("no OpenAPI document loaded")
	}
	report := &Report{}
	if c.doc.Info != nil {
		report.Title = c.doc.Info.Title
		report.Version = c.doc.Info.Version
	}

	basePath = strings.TrimSuffix(basePath, "/")
	for _, route := range routes {
		method := strings.ToUpper(route.Method)
		if c.excluded(route.Path, method) {
			report.Skipped++
			continue
		}
		report.Checked++

		pathItem := c.doc.Paths.Find(basePath + route.Path)
		if pathItem == nil {
			pathItem = c.doc.Paths.Find(route.Path)
		}
		var op *openapi3.Operation
		if pathItem != nil {
			op = pathItem.GetOperation(method)
		}
		if op == nil {
			report.Findings = append(report.Findings, Finding{Kind: MissingOperation, Method: method, Path: route.Path})
			continue
		}

		report.Findings = append(report.Findings, checkOperation(route, method, pathItem, op)...)
	}

	sort.SliceStable(report.Findings, func(i, j int) bool {
		if report.Findings[i].Path != report.Findings[j].Path {
			return report.Findings[i].Path < report.Findings[j].Path
		}
		return report.Findings[i].Field < report.Findings[j].Field
	})
	return report, nil
}

func checkOperation(route *requester.RouteConfig, method string, pathItem *openapi3.PathItem, op *openapi3.Operation) []Finding {
	var findings []Finding
	missing := func(kind Kind, field string) {
		findings = append(findings, Finding{Kind: kind, Method: method, Path: route.Path, Field: field})
	}

	query := queryParams(pathItem, op)
	for _, name := range route.MethodConfig.QueryParams {
		if !query[name] {
			missing(MissingQuery, name)
		}
	}

	if len(route.MethodConfig.BodyFields) > 0 {
		// an untyped body accepts anything
		if props, typed := bodyProperties(op, "application/json"); typed {
			for _, name := range route.MethodConfig.BodyFields {
				if !props[name] {
					missing(MissingBodyField, name)
				}
			}
		}
	}

	if len(route.MethodConfig.FormFields) > 0 && method != http.MethodGet {
		props, _ := bodyProperties(op, "multipart/form-data")
		for _, name := range route.MethodConfig.FormFields {
			// multipart parts are often documented as query parameters
			if !props[name] && !query[name] {
				missing(MissingFormField, name)
			}
		}
	}
	return findings
}

func queryParams(pathItem *openapi3.PathItem, op *openapi3.Operation) map[string]bool {
	out := map[string]bool{}
	for _, params := range []openapi3.Parameters{pathItem.Parameters, op.Parameters} {
		for _, p := range params {
			if p.Value != nil && p.Value.In == openapi3.ParameterInQuery {
				out[p.Value.Name] = true
			}
		}
	}
	return out
}

// bodyProperties returns the property names of the request body schema for
// mediaType, falling back to the merged properties of every content type.
// typed is false when no schema declares properties.
func bodyProperties(op *openapi3.Operation, mediaType string) (props map[string]bool, typed bool) {
	props = map[string]bool{}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return props, false
	}
	content := op.RequestBody.Value.Content
	if mt := content.Get(mediaType); mt != nil {
		collectProperties(mt.Schema, props)
	} else {
		for _, mt := range content {
			collectProperties(mt.Schema, props)
		}
	}
	return props, len(props) > 0
}

func collectProperties(schema *openapi3.SchemaRef, into map[string]bool) {
	if schema == nil || schema.Value == nil {
		return
	}
	for name := range schema.Value.Properties {
		into[name] = true
	}
	for _, sub := range schema.Value.AllOf {
		collectProperties(sub, into)
	}
}

// excluded reports whether the route is listed in the exclusions file
func (c *Checker) excluded(path, method string) bool {
	if c.exclusions == nil {
		return false
	}
	for _, sel := range c.exclusions.Routes {
		if sel.Path != path {
			continue
		}
		if len(sel.Methods) == 0 {
			return true
		}
		for _, m := range sel.Methods {
			if strings.EqualFold(m, method) {
				return true
			}
		}
		return false
	}
	return false
}
