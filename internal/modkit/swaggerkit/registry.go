// Package swaggerkit mounts the Swagger UI and serves the OpenAPI document,
// letting modules adjust the spec before it goes out
package swaggerkit

// SpecMutator tweaks the parsed swagger spec before it is served
type SpecMutator func(map[string]any)

// mutators is the in-process registry; applied in registration order
var mutators []SpecMutator

// Register adds a spec mutator. Call from module wiring or init so the
// document reflects runtime route decisions
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}
