package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"settlement/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openAPIDocument []byte

var registerSwaggerOnce sync.Once

// APIDocs is the loaded API contract. It validates incoming requests and
// serves the document to /api/openapi.json and the swagger UI.
type APIDocs struct {
	doc    *openapi3.T
	json   []byte
	router routers.Router
}

// LoadAPIDocs parses and validates the embedded OpenAPI document.
func LoadAPIDocs(ctx context.Context) (*APIDocs, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}

	return &APIDocs{doc: doc, json: data, router: router}, nil
}

// Document returns the validated OpenAPI document.
func (d *APIDocs) Document() *openapi3.T {
	return d.doc
}

// ServeJSON handles GET /api/openapi.json.
func (d *APIDocs) ServeJSON(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, d.json)
}

// ReadDoc satisfies swag.Swagger.
func (d *APIDocs) ReadDoc() string {
	return string(d.json)
}

// RegisterSwagger publishes the document under swag.Name, which the
// echo-swagger handler reads from. Only the first call registers.
func (d *APIDocs) RegisterSwagger() {
	registerSwaggerOnce.Do(func() {
		swag.Register(swag.Name, d)
	})
}

// RequestValidator rejects requests that do not match the contract. Routes
// the document does not describe pass through untouched.
func (d *APIDocs) RequestValidator() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			route, pathParams, err := d.router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return errs.NewValueIsInvalidErrorWithCause("request", err)
			}

			return next(c)
		}
	}
}
