package xmi

import "fmt"

// Point3D is an immutable coordinate triple.
type Point3D struct {
	x, y, z float64
}

// NewPoint3D returns the point (x, y, z).
func NewPoint3D(x, y, z float64) *Point3D {
	return &Point3D{x: x, y: y, z: z}
}

func (p *Point3D) X() float64 { return p.x }
func (p *Point3D) Y() float64 { return p.y }
func (p *Point3D) Z() float64 { return p.z }

// Equal reports coordinate equality.
func (p *Point3D) Equal(other *Point3D) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.x == other.x && p.y == other.y && p.z == other.z
}

func (p *Point3D) String() string {
	return formatFloats([]float64{p.x, p.y, p.z})
}

// ToDict returns {"x", "y", "z"}.
func (p *Point3D) ToDict() Dict {
	return Dict{"x": p.x, "y": p.y, "z": p.z}
}

// toPoint3D accepts a *Point3D, a Point3D, a {x,y,z} mapping (any key case) or a "x;y;z" string.
func toPoint3D(typeName, attribute string, v any) (*Point3D, error) {
	switch p := v.(type) {
	case *Point3D:
		if p == nil {
			return nil, NewMissingAttributeError(typeName, attribute)
		}
		return p, nil
	case Point3D:
		return &p, nil
	case string:
		values, err := parseDelimitedFloats(typeName, attribute, p, 3)
		if err != nil {
			return nil, err
		}
		return NewPoint3D(values[0], values[1], values[2]), nil
	case Dict:
		return pointFromMap(typeName, attribute, p)
	case map[string]any:
		return pointFromMap(typeName, attribute, p)
	}
	return nil, NewInconsistentTypeError(typeName, attribute, TypePoint3D, v)
}

func pointFromMap(typeName, attribute string, m map[string]any) (*Point3D, error) {
	var coords [3]float64
	for i, keys := range [3][2]string{{"x", "X"}, {"y", "Y"}, {"z", "Z"}} {
		raw, ok := m[keys[0]]
		if !ok {
			raw, ok = m[keys[1]]
		}
		if !ok {
			return nil, newAttributeError(ErrMissingRequiredAttribute, typeName, attribute,
				"%s '%s' point is missing coordinate %s", typeName, attribute, keys[0])
		}
		f, isNum := toFloat(raw)
		if !isNum {
			return nil, newAttributeError(ErrInconsistentDataType, typeName, attribute,
				"%s '%s' coordinate %s should be a number, got %s", typeName, attribute, keys[0], fmt.Sprintf("%T", raw))
		}
		coords[i] = f
	}
	return NewPoint3D(coords[0], coords[1], coords[2]), nil
}
