package api

import (
	_ "embed"
	"net/http"
)

// The OpenAPI document is maintained by hand alongside the handler
// annotations and embedded at build time.
//
//go:embed openapi.json
var openAPIDoc []byte

// serveOpenAPIDoc serves the embedded OpenAPI document consumed by the
// swagger UI at /docs/.
func serveOpenAPIDoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(openAPIDoc)
}
