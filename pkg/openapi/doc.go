// Package openapi derives host schemas from OpenAPI 3 operations. The request
// body of an operation becomes a form whose fields carry the constraints the
// document declares (required, type, bounds, pattern, enum), so the same
// contract drives both the API and interactive validation.
//
// Documents are parsed with kin-openapi and kept behind Document so callers
// never handle openapi3 types directly.
package openapi
