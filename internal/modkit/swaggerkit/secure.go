package swaggerkit

import (
	"strings"
	"sync"
)

// secured collects route suffixes guarded by bearer auth, keyed by
// lowercase method. Routers mark routes as they mount them; the spec
// mutator below stamps the matching operations when the document is built
var (
	securedMu sync.Mutex
	secured   = map[string][]string{}
)

// MarkSecurePath records that method+path sits behind bearer auth. path is
// relative to the marking router's mount point, so spec paths are matched
// by suffix
func MarkSecurePath(path, method string) {
	m := strings.ToLower(strings.TrimSpace(method))
	if m == "" || path == "" {
		return
	}
	securedMu.Lock()
	secured[m] = append(secured[m], path)
	securedMu.Unlock()
}

func init() {
	Register(applySecurity)
}

// applySecurity stamps bearer security and a 401 response onto every
// operation recorded by MarkSecurePath
func applySecurity(spec map[string]any) {
	securedMu.Lock()
	marked := make(map[string][]string, len(secured))
	for m, paths := range secured {
		marked[m] = append([]string(nil), paths...)
	}
	securedMu.Unlock()
	if len(marked) == 0 {
		return
	}

	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}

	stamped := false
	for specPath, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for method, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			if !matchesSecured(marked, specPath, method) {
				continue
			}
			op["security"] = []any{map[string]any{"BearerAuth": []any{}}}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses["401"]; !exists {
				responses["401"] = map[string]any{"description": "Unauthorized"}
			}
			stamped = true
		}
	}
	if stamped {
		ensureBearerScheme(spec)
	}
}

func matchesSecured(marked map[string][]string, specPath, method string) bool {
	for _, suffix := range marked[strings.ToLower(method)] {
		if strings.HasSuffix(specPath, suffix) {
			return true
		}
	}
	return false
}

func ensureBearerScheme(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemes, ok := comps["securitySchemes"].(map[string]any)
	if !ok {
		schemes = map[string]any{}
		comps["securitySchemes"] = schemes
	}
	if _, ok := schemes["BearerAuth"]; !ok {
		schemes["BearerAuth"] = map[string]any{
			"type":   "http",
			"scheme": "bearer",
		}
	}
}
