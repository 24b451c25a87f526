package openapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed leads.yaml
var leadsDocument []byte

// Contract returns the embedded API document as YAML.
func Contract() []byte {
	out := make([]byte, len(leadsDocument))
	copy(out, leadsDocument)
	return out
}

// ErrRouteNotFound is returned when a request does not match any documented
// operation.
var ErrRouteNotFound = errors.New("openapi: route not documented")

// RequestError lists contract violations keyed by location. Body issues use
// JSON pointers under "/body" (for example "/body/email"); issues that do not
// point into the body are keyed by "".
type RequestError struct {
	Issues map[string][]string
}

func (e *RequestError) Error() string {
	keys := make([]string, 0, len(e.Issues))
	for key := range e.Issues {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		label := key
		if label == "" {
			label = "request"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, strings.Join(e.Issues[key], "; ")))
	}
	return "openapi: invalid request: " + strings.Join(parts, ", ")
}

// Validator checks requests against the embedded document.
type Validator struct {
	router routers.Router
}

// NewValidator loads and validates the embedded document.
func NewValidator(ctx context.Context) (*Validator, error) {
	return NewValidatorFromData(ctx, leadsDocument)
}

// NewValidatorFromData builds a validator for an arbitrary document.
func NewValidatorFromData(ctx context.Context, data []byte) (*Validator, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: invalid document: %w", err)
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: build router: %w", err)
	}
	return &Validator{router: router}, nil
}

// ValidateRequest checks r against its documented operation. The request
// body stays readable afterwards. Contract violations come back as
// *RequestError; undocumented routes as ErrRouteNotFound.
func (v *Validator) ValidateRequest(r *http.Request) error {
	route, pathParams, err := v.router.FindRoute(r)
	if err != nil {
		return fmt.Errorf("%w: %s %s", ErrRouteNotFound, r.Method, r.URL.Path)
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			MultiError:         true,
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
	if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
		issues := make(map[string][]string)
		collectIssues(err, issues)
		return &RequestError{Issues: issues}
	}
	return nil
}

func collectIssues(err error, issues map[string][]string) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collectIssues(inner, issues)
		}
	case *openapi3filter.RequestError:
		if e.Err != nil && containsSchemaError(e.Err) {
			collectIssues(e.Err, issues)
			return
		}
		message := e.Reason
		if message == "" {
			message = e.Error()
		}
		issues[""] = append(issues[""], message)
	case *openapi3.SchemaError:
		pointer := e.JSONPointer()
		key := "/body"
		if len(pointer) > 0 {
			key += "/" + strings.Join(pointer, "/")
		}
		issues[key] = append(issues[key], e.Reason)
	default:
		issues[""] = append(issues[""], err.Error())
	}
}

func containsSchemaError(err error) bool {
	switch e := err.(type) {
	case *openapi3.SchemaError:
		return true
	case openapi3.MultiError:
		for _, inner := range e {
			if containsSchemaError(inner) {
				return true
			}
		}
	}
	return false
}
