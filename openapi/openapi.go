// Package openapi embeds the OpenAPI description of the trips REST contract.
// The local trips service serves it at /openapi.yaml.
package openapi

import _ "embed"

// Document contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var Document []byte
