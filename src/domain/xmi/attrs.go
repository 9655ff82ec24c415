package xmi

import (
	"encoding/json"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Dict is the untyped mapping used at the serialization boundary. Keys are either
// canonical attribute names (FromDict) or vendor keys (FromXmiDict).
type Dict map[string]any

// Copy returns a shallow copy of d.
func (d Dict) Copy() Dict {
	out := make(Dict, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// lookup returns the value stored under key and whether it is present and not nil.
func (d Dict) lookup(key string) (any, bool) {
	v, ok := d[key]
	return v, ok && v != nil
}

// Axis is a local axis direction.
type Axis [3]float64

// Global axes, used as local axis defaults.
var (
	GlobalX = Axis{1, 0, 0}
	GlobalY = Axis{0, 1, 0}
	GlobalZ = Axis{0, 0, 1}
)

// String renders the axis in the vendor "x;y;z" form.
func (a Axis) String() string {
	return formatFloats(a[:])
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ";")
}

// ParseLocalAxis converts a "x;y;z" string into an Axis.
func ParseLocalAxis(s string) (Axis, error) {
	return parseAxis(TypeCurveMember, "local_axis", s)
}

func parseAxis(typeName, attribute, s string) (Axis, error) {
	values, err := parseDelimitedFloats(typeName, attribute, s, 3)
	if err != nil {
		return Axis{}, err
	}
	return Axis{values[0], values[1], values[2]}, nil
}

// parseDelimitedFloats splits s on ';' and converts every part. A negative arity accepts any
// number of parts.
func parseDelimitedFloats(typeName, attribute, s string, arity int) ([]float64, error) {
	parts := strings.Split(s, ";")
	if arity >= 0 && len(parts) != arity {
		return nil, newAttributeError(ErrMissingRequiredAttribute, typeName, attribute,
			"the %s '%s' attribute should have %d parameters, got %d", typeName, attribute, arity, len(parts))
	}

	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return nil, newAttributeError(ErrMissingRequiredAttribute, typeName, attribute,
				"the individual parameter [%s] within the %s '%s' attribute should not be an empty string or empty space",
				part, typeName, attribute)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || !finite(f) {
			return nil, newAttributeError(ErrInconsistentDataType, typeName, attribute,
				"the parameter [%s] within the %s '%s' attribute should be convertible to float", part, typeName, attribute)
		}
		values = append(values, f)
	}
	return values, nil
}

// finite reports whether f can be stored as a JSON number. NaN and infinities cannot.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// toFloat converts any Go number to float64. Non-finite values are rejected.
func toFloat(v any) (float64, bool) {
	f, ok := numeric(v)
	return f, ok && finite(f)
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toFloats(v any) ([]float64, bool) {
	switch list := v.(type) {
	case []float64:
		return list, !slices.ContainsFunc(list, func(f float64) bool { return !finite(f) })
	case []any:
		out := make([]float64, len(list))
		for i, item := range list {
			f, ok := toFloat(item)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

func toAxis(v any) (Axis, bool) {
	switch a := v.(type) {
	case Axis:
		return a, finite(a[0]) && finite(a[1]) && finite(a[2])
	case [3]float64:
		return toAxis(Axis(a))
	}
	values, ok := toFloats(v)
	if !ok || len(values) != 3 {
		return Axis{}, false
	}
	return Axis{values[0], values[1], values[2]}, true
}

// attributeSetter is implemented by every XMI type: SetAttr is the untyped, validating
// entry point and clearAttr resets an attribute to its absent value.
type attributeSetter interface {
	SetAttr(name string, value any) error
	clearAttr(name string)
}

// applyAttributes runs the attribute-setting pass shared by all kwargs constructors. For each
// attribute the first source holding the key wins, so callers pass kwargs before explicit
// parameters and defaults. A failing setter leaves the attribute absent and the error is
// returned as a per-field diagnostic instead of aborting construction.
func applyAttributes(typeName string, target attributeSetter, names []string, sources ...Dict) []error {
	var diagnostics []error
	for _, name := range names {
		var value any
		for _, src := range sources {
			if v, ok := src[name]; ok {
				value = v
				break
			}
		}
		if err := target.SetAttr(name, value); err != nil {
			target.clearAttr(name)
			slog.Default().Warn("xmi attribute set to absent",
				"type", typeName,
				"attribute", name,
				"error", err)
			diagnostics = append(diagnostics, err)
		}
	}
	return diagnostics
}

// markMissing logs every declared attribute absent from in and returns a working copy where
// those attributes are explicitly nil.
func markMissing(typeName string, names []string, in Dict, log *ErrorLog) Dict {
	working := in.Copy()
	for _, name := range names {
		if _, ok := working[name]; !ok {
			log.Add(newMissingKeyError(typeName, name))
			working[name] = nil
		}
	}
	return working
}

// checkStandardParams enforces that explicit identity parameters and a keyword bag are not
// combined.
func checkStandardParams(typeName string, kwargs Dict, standard ...bool) error {
	if len(kwargs) == 0 {
		return nil
	}
	for _, set := range standard {
		if set {
			return NewMutualExclusivityError(typeName)
		}
	}
	return nil
}

// checkOverlap fails when kwargs carries a key whose explicit parameter was also set.
func checkOverlap(typeName string, explicit, kwargs Dict) error {
	for key := range kwargs {
		if _, ok := explicit.lookup(key); ok {
			return NewMutualExclusivityError(typeName)
		}
	}
	return nil
}

// requirePresent fails with a missing attribute error when name is in neither source.
func requirePresent(typeName, name string, explicit, kwargs Dict) error {
	if _, ok := explicit.lookup(name); ok {
		return nil
	}
	if _, ok := kwargs.lookup(name); ok {
		return nil
	}
	return NewMissingAttributeError(typeName, name)
}

func optionalString(typeName, name string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}
	return "", NewTypeError(typeName, name, "string", value)
}

func optionalFloat(typeName, name string, value any) (*float64, error) {
	if value == nil {
		return nil, nil
	}
	if p, ok := value.(*float64); ok {
		if p == nil {
			return nil, nil
		}
		if !finite(*p) {
			return nil, NewTypeError(typeName, name, "finite float", *p)
		}
		f := *p
		return &f, nil
	}
	f, ok := toFloat(value)
	if !ok {
		return nil, NewTypeError(typeName, name, "float", value)
	}
	return &f, nil
}

// floatOrDefault accepts numbers and treats nil as def.
func floatOrDefault(typeName, name string, value any, def float64) (float64, error) {
	if value == nil {
		return def, nil
	}
	f, ok := toFloat(value)
	if !ok {
		return 0, NewTypeError(typeName, name, "float or int", value)
	}
	return f, nil
}

func floatValue(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}
