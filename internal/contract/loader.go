package contract

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brizzai/hotel-console/internal/logger"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// NewChecker creates an empty Checker; call Init or ParseReader before Check.
func NewChecker() *Checker {
	return &Checker{exclusions: &Exclusions{}}
}

// Init loads the OpenAPI document and, if given, the exclusions file.
func (c *Checker) Init(openAPISpec string, exclusionsFile string) error {
	data, err := os.ReadFile(openAPISpec)
	if err != nil {
		return fmt.Errorf("failed to read spec file: %w", err)
	}
	if err := c.LoadExclusions(exclusionsFile); err != nil {
		return fmt.Errorf("failed to load exclusions file: %w", err)
	}
	return c.detectAndParseOpenAPI(data)
}

// ParseReader loads the OpenAPI document from reader.
func (c *Checker) ParseReader(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read openapi document: %w", err)
	}
	return c.detectAndParseOpenAPI(data)
}

// detectAndParseOpenAPI accepts OpenAPI 2.0 or 3.x, in JSON or YAML
func (c *Checker) detectAndParseOpenAPI(data []byte) error {
	var obj map[string]interface{}
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	swaggerVersion, hasSwagger := obj["swagger"]
	openapiVersion, hasOpenAPI := obj["openapi"]
	if !hasSwagger && !hasOpenAPI {
		return fmt.Errorf("document is missing 'swagger' or 'openapi' version field")
	}

	if hasSwagger {
		doc, err := convertOpenAPI2to3(data, swaggerVersion)
		if err != nil {
			return err
		}
		if doc.Paths == nil {
			doc.Paths = openapi3.NewPaths()
		}
		c.doc = doc
		return nil
	}

	if ver, ok := openapiVersion.(string); !ok || !strings.HasPrefix(ver, "3.") {
		return fmt.Errorf("unsupported OpenAPI version: %v", openapiVersion)
	}

	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		logger.Error("Failed to parse OpenAPI 3 document", zap.Error(err))
		return fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	if doc.Paths == nil {
		doc.Paths = openapi3.NewPaths()
	}
	c.doc = doc
	return nil
}

func convertOpenAPI2to3(data []byte, swaggerVersion interface{}) (*openapi3.T, error) {
	jsonData := data
	if !json.Valid(data) {
		var generic interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("failed to parse OpenAPI 2.0 document: %w", err)
		}
		var err error
		if jsonData, err = json.Marshal(generic); err != nil {
			return nil, fmt.Errorf("failed to re-encode OpenAPI 2.0 document: %w", err)
		}
	}

	var swagger2Doc openapi2.T
	if err := json.Unmarshal(jsonData, &swagger2Doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI 2.0 document: %w", err)
	}
	if swagger2Doc.Swagger != "2.0" {
		return nil, fmt.Errorf("unsupported Swagger version: %v", swaggerVersion)
	}

	logger.Info("Detected OpenAPI 2.0 document, converting to OpenAPI 3")
	doc, err := openapi2conv.ToV3(&swagger2Doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert OpenAPI 2.0 to 3: %w", err)
	}
	return doc, nil
}

// LoadExclusions reads the exclusions YAML file. An empty path is a no-op.
func (c *Checker) LoadExclusions(filePath string) error {
	if filePath == "" {
		return nil
	}
	logger.Info("Loading contract exclusions", zap.String("file", filePath))
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var ex Exclusions
	if err := yaml.Unmarshal(data, &ex); err != nil {
		return err
	}
	c.exclusions = &ex
	return nil
}
