// OpenAPI schema and documentation UI for the mock OPERA API.

package opera

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/operamock/operamock/pkg/httputil"
)

//go:embed openapi.yaml
var specYAML []byte

var (
	specOnce sync.Once
	specDoc  *openapi3.T
	specErr  error
)

// Spec returns the validated OpenAPI document describing the mock API.
func Spec() (*openapi3.T, error) {
	specOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(specYAML)
		if err != nil {
			specErr = fmt.Errorf("failed to load OpenAPI spec: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			specErr = fmt.Errorf("invalid OpenAPI spec: %w", err)
			return
		}
		specDoc = doc
	})
	return specDoc, specErr
}

// handleOpenAPISpec handles GET /openapi.json.
func (s *Server) handleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	doc, err := Spec()
	if err != nil {
		s.log.Error("OpenAPI spec unavailable", "error", err)
		httputil.WriteInternalError(w, "spec_error", "OpenAPI spec unavailable")
		return
	}

	data, err := doc.MarshalJSON()
	if err != nil {
		s.log.Error("failed to marshal OpenAPI spec", "error", err)
		httputil.WriteInternalError(w, "spec_error", "OpenAPI spec unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// docsPage is the interactive documentation UI served at /docs. It renders
// /openapi.json with Swagger UI loaded from the unpkg CDN.
const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Mock OPERA API - Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      SwaggerUIBundle({
        url: "/openapi.json",
        dom_id: "#swagger-ui",
      });
    };
  </script>
</body>
</html>
`

// handleDocs handles GET /docs.
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, docsPage)
}
