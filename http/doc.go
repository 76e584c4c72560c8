// Package http serves a cfgchain.ConfigValueStore as a JSON API.
//
// # Routes
//
//	GET    /variables                  every name with its resolution
//	GET    /variables/{name}           resolved value, 404 when absent
//	GET    /variables/{name}/explain   value plus the source that supplied it
//	PUT    /variables/{name}           {"value": ...} sets an override
//	DELETE /variables/{name}           clears the override
//	GET    /metrics                    Prometheus exposition (when enabled)
//
// Overrides set over the API win even when falsy: PUT {"value": false}
// makes GET return false regardless of the environment or config file.
//
// # Usage
//
//	sess := session.New()
//	h := http.NewHandler(&http.HandlerConfig{Metrics: http.NewMetrics()}, sess.Store())
//	stdhttp.ListenAndServe(":8080", h.Router())
//
// Errors are JSON ErrorResponse bodies. A conversion failure is reported as
// 422 conversion_failed, a malformed name or body as 400.
package http
