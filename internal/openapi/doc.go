// Package openapi holds the lead intake API contract and validates incoming
// requests against it with kin-openapi.
package openapi
