package xmi

// KeyMapping renames vendor keys to canonical attribute names. It is one-directional constant
// data; Version identifies the vendor schema revision the table was written against.
type KeyMapping struct {
	Version string
	Keys    map[string]string
}

// Remap rewrites every key of in through the table. Keys without a mapping pass through.
func (m KeyMapping) Remap(in Dict) Dict {
	out := make(Dict, len(in))
	for k, v := range in {
		if canonical, ok := m.Keys[k]; ok {
			out[canonical] = v
			continue
		}
		out[k] = v
	}
	return out
}

// VendorKey returns the vendor key for a canonical attribute name.
func (m KeyMapping) VendorKey(canonical string) (string, bool) {
	for vendor, c := range m.Keys {
		if c == canonical {
			return vendor, true
		}
	}
	return "", false
}

var identityKeys = map[string]string{
	"ID":          "id",
	"Name":        "name",
	"Description": "description",
	"IFCGUID":     "ifcguid",
}

func withIdentityKeys(keys map[string]string) map[string]string {
	for k, v := range identityKeys {
		keys[k] = v
	}
	return keys
}

// CurveMemberKeys maps StructuralCurveMember vendor keys.
//
// Reserved vendor keys documented by the schema but not decoded yet: CircularArcCentre,
// CircularArcRadius, StiffnessModifierArea, StiffnessModifierAsy, StiffnessModifierAsz,
// StiffnessModifierTorsion, StiffnessModifierIyy, StiffnessModifierIzz, StiffnessModifierMass,
// StiffnessModifierWeight, EndFixityAxialStart, EndFixityShearMajorStart,
// EndFixityShearMinorStart, EndFixityTorsionStart, EndFixityMomentMajorStart,
// EndFixityMomentMinorStart, EndFixityAxialEnd, EndFixityShearMajorEnd, EndFixityShearMinorEnd,
// EndFixityTorsionEnd, EndFixityMomentMajorEnd, EndFixityMomentMinorEnd, LateralRestrain,
// LateralRestrainLocation, LengthEffectiveMajor, LengthEffectiveMinor, SwayInMajor, SwayInMinor,
// BracedAbtMajor, BracedAbtMinor. They pass through Remap unchanged and are ignored.
var CurveMemberKeys = KeyMapping{
	Version: "1",
	Keys: withIdentityKeys(map[string]string{
		"CrossSection":     "cross_section",
		"Storey":           "storey",
		"Type":             "curve_member_type",
		"Nodes":            "nodes",
		"Segments":         "segments",
		"SystemLine":       "system_line",
		"BeginNode":        "begin_node",
		"EndNode":          "end_node",
		"Length":           "length",
		"LocalAxisX":       "local_axis_x",
		"LocalAxisY":       "local_axis_y",
		"LocalAxisZ":       "local_axis_z",
		"BeginNodeXOffset": "begin_node_x_offset",
		"EndNodeXOffset":   "end_node_x_offset",
		"BeginNodeYOffset": "begin_node_y_offset",
		"EndNodeYOffset":   "end_node_y_offset",
		"BeginNodeZOffset": "begin_node_z_offset",
		"EndNodeZOffset":   "end_node_z_offset",
		"EndFixityStart":   "end_fixity_start",
		"EndFixityEnd":     "end_fixity_end",
	}),
}

// PointConnectionKeys maps StructuralPointConnection vendor keys.
var PointConnectionKeys = KeyMapping{
	Version: "1",
	Keys: withIdentityKeys(map[string]string{
		"Point":  "point",
		"Storey": "storey",
	}),
}

// CrossSectionKeys maps StructuralCrossSection vendor keys.
var CrossSectionKeys = KeyMapping{
	Version: "1",
	Keys: withIdentityKeys(map[string]string{
		"Material":   "material",
		"Shape":      "shape",
		"Parameters": "parameters",
		"Area":       "area",
	}),
}

// MaterialKeys maps StructuralMaterial vendor keys.
var MaterialKeys = KeyMapping{
	Version: "1",
	Keys: withIdentityKeys(map[string]string{
		"Type":               "material_type",
		"Grade":              "grade",
		"UnitWeight":         "unit_weight",
		"EModulus":           "e_modulus",
		"GModulus":           "g_modulus",
		"PoissonRatio":       "poisson_ratio",
		"ThermalCoefficient": "thermal_coefficient",
	}),
}

// toXmiDict renames canonical keys back to vendor keys. Canonical keys without a vendor key
// are dropped.
func (m KeyMapping) toXmiDict(canonical Dict) Dict {
	out := make(Dict, len(canonical))
	for vendor, c := range m.Keys {
		if v, ok := canonical[c]; ok {
			out[vendor] = v
		}
	}
	return out
}
