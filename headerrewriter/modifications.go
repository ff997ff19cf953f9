package headerrewriter

import "regexp"

// MultiValueMap maps a string key to an ordered, duplicate-permitting list
// of string values. http.Header, url.Values and grpc metadata.MD all have
// this underlying type, so each converts to a MultiValueMap without copying.
// The rewriter never normalizes keys; case handling belongs to whichever
// concrete map the caller supplies.
type MultiValueMap map[string][]string

// Clone returns a writable copy of m with freshly allocated value slices.
func (m MultiValueMap) Clone() MultiValueMap {
	clone := make(MultiValueMap, len(m))
	for name, values := range m {
		clone[name] = append([]string(nil), values...)
	}
	return clone
}

// modification is a single recorded mutation intent against a MultiValueMap.
type modification interface {
	apply(m MultiValueMap)
}

type addModification struct {
	name  string
	value string
}

func (mod addModification) apply(m MultiValueMap) {
	m[mod.name] = append(m[mod.name], mod.value)
}

type setModification struct {
	name   string
	values []string
}

func (mod setModification) apply(m MultiValueMap) {
	// Copied so the target map never shares backing storage with the list.
	m[mod.name] = append([]string(nil), mod.values...)
}

type removeModification struct {
	name string
}

func (mod removeModification) apply(m MultiValueMap) {
	delete(m, mod.name)
}

type removeMatchingModification struct {
	pattern *regexp.Regexp // anchored, see anchorPattern
}

func (mod removeMatchingModification) apply(m MultiValueMap) {
	for name := range m {
		if mod.pattern.MatchString(name) {
			delete(m, name)
		}
	}
}

type removeValueModification struct {
	name  string
	value string
}

func (mod removeValueModification) apply(m MultiValueMap) {
	values, ok := m[mod.name]
	if !ok {
		return
	}
	for i, v := range values {
		if v == mod.value {
			values = append(values[:i], values[i+1:]...)
			break
		}
	}
	if len(values) == 0 {
		delete(m, mod.name)
		return
	}
	m[mod.name] = values
}

// anchorPattern wraps expr so that it must match an entire key. A bare
// regexp.MatchString would match substrings and silently widen removal.
func anchorPattern(expr string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + expr + ")$")
}
