// Package docs embeds the OpenAPI description of the values API.
package docs

import (
	_ "embed"
)

// OpenAPISpec contains the embedded OpenAPI specification in YAML format.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
