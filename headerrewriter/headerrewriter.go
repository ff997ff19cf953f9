package headerrewriter

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidArgument is returned when a rewriter or config rule is recorded
// with arguments that can never be applied, such as a Set with no values.
var ErrInvalidArgument = errors.New("invalid argument")

// Logger interface for logging (can be implemented by any logger)
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
}

// NoOpLogger is a no-operation logger
type NoOpLogger struct{}

func (n NoOpLogger) Debug(args ...interface{}) {}
func (n NoOpLogger) Info(args ...interface{})  {}
func (n NoOpLogger) Warn(args ...interface{})  {}
func (n NoOpLogger) Error(args ...interface{}) {}

// Rewriter records an ordered list of modifications and applies them to
// multi-valued maps. The fluent methods return the receiver so calls chain;
// nothing observable happens until Apply.
//
// A Rewriter is not safe for concurrent building. Once fully built it may be
// applied concurrently against distinct target maps, since Apply only reads
// list state.
type Rewriter struct {
	mods   []modification
	err    error
	debug  bool
	logger Logger
}

// New creates an empty Rewriter.
func New() *Rewriter {
	return &Rewriter{logger: NoOpLogger{}}
}

// Add appends a modification that adds value under name, creating the entry
// if absent. Empty values are permitted.
func (r *Rewriter) Add(name, value string) *Rewriter {
	r.mods = append(r.mods, addModification{name: name, value: value})
	return r
}

// Set appends a modification that replaces the entire value list for name,
// creating the entry if absent. At least one value must be provided; calling
// Set with none records an ErrInvalidArgument that Apply and Err surface.
func (r *Rewriter) Set(name string, values ...string) *Rewriter {
	if len(values) == 0 {
		r.recordErr(fmt.Errorf("set %q: at least one value must be provided: %w", name, ErrInvalidArgument))
		return r
	}
	r.mods = append(r.mods, setModification{name: name, values: append([]string(nil), values...)})
	return r
}

// Remove appends a modification that deletes the entry for name. A missing
// entry is a no-op at apply time.
func (r *Rewriter) Remove(name string) *Rewriter {
	r.mods = append(r.mods, removeModification{name: name})
	return r
}

// RemoveMatching appends a modification that deletes every entry whose key
// fully matches pattern. The pattern is re-anchored before use, so partial
// matches never qualify.
func (r *Rewriter) RemoveMatching(pattern *regexp.Regexp) *Rewriter {
	anchored, err := anchorPattern(pattern.String())
	if err != nil {
		r.recordErr(fmt.Errorf("remove matching %q: %w", pattern.String(), err))
		return r
	}
	r.mods = append(r.mods, removeMatchingModification{pattern: anchored})
	return r
}

// RemoveValue appends a modification that deletes the first occurrence of
// value under name, deleting the entry entirely if its value list empties.
// A missing name or value is a no-op at apply time.
func (r *Rewriter) RemoveValue(name, value string) *Rewriter {
	r.mods = append(r.mods, removeValueModification{name: name, value: value})
	return r
}

// Debug toggles per-modification logging during Apply.
func (r *Rewriter) Debug(debug bool) *Rewriter {
	r.debug = debug
	return r
}

// SetLogger sets a custom logger
func (r *Rewriter) SetLogger(logger Logger) {
	r.logger = logger
}

// Err reports the first recording error, if any.
func (r *Rewriter) Err() error {
	return r.err
}

// Len reports the number of recorded modifications.
func (r *Rewriter) Len() int {
	return len(r.mods)
}

func (r *Rewriter) recordErr(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Apply executes every recorded modification, in insertion order, against m
// and returns it. Removals of keys or values that are absent are silent
// no-ops, so a list authored against an anticipated shape still applies when
// some entries are missing. If a recording error is pending, Apply returns it
// without touching m.
//
// Apply never mutates the rewriter and never retains m.
func (r *Rewriter) Apply(m MultiValueMap) (MultiValueMap, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, mod := range r.mods {
		mod.apply(m)
		if r.debug {
			r.logger.Debug("applied modification:", fmt.Sprintf("%+v", mod))
		}
	}
	return m, nil
}
