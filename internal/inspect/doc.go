// Package inspect serves a read-only HTTP view of a host context: liveness,
// component ownership, default components and Prometheus metrics.
//
// Routes:
//
//	GET  /health                     liveness probe
//	GET  /registry                   full ownership snapshot
//	GET  /components/{id}            owner of one component
//	GET  /plugins/{id}/components    components of one plugin
//	GET  /defaults/{id}              default component with baseline props
//	POST /defaults/{id}/render       default component with JSON override props
//	GET  /metrics                    Prometheus exposition
package inspect
