package xmi

// Material is a structural material and its mechanical properties.
type Material struct {
	BaseEntity
	diagnostics
	materialType       MaterialType
	grade              *float64
	unitWeight         *float64
	eModulus           *float64
	gModulus           *float64
	poissonRatio       *float64
	thermalCoefficient *float64
}

// MaterialParams are the typed construction parameters of a Material. A zero MaterialType
// means unset.
type MaterialParams struct {
	ID                 string
	Name               string
	Description        string
	IfcGUID            string
	MaterialType       MaterialType
	Grade              *float64
	UnitWeight         *float64
	EModulus           *float64
	GModulus           *float64
	PoissonRatio       *float64
	ThermalCoefficient *float64
}

var materialOwnAttributes = []string{
	"material_type",
	"grade",
	"unit_weight",
	"e_modulus",
	"g_modulus",
	"poisson_ratio",
	"thermal_coefficient",
}

// MaterialAttributes is the closed attribute list of Material.
var MaterialAttributes = withIdentity(materialOwnAttributes...)

// NewMaterial builds a material from typed parameters.
func NewMaterial(params MaterialParams) (*Material, error) {
	return NewMaterialFromKwargs(params, nil)
}

// NewMaterialFromKwargs builds a material from a keyword bag.
func NewMaterialFromKwargs(params MaterialParams, kwargs Dict) (*Material, error) {
	err := checkStandardParams(TypeMaterial, kwargs,
		params.ID != "", params.Name != "", params.Description != "", params.IfcGUID != "")
	if err != nil {
		return nil, err
	}

	explicit := Dict{}
	if params.MaterialType != 0 {
		explicit["material_type"] = params.MaterialType
	}
	for name, p := range map[string]*float64{
		"grade":               params.Grade,
		"unit_weight":         params.UnitWeight,
		"e_modulus":           params.EModulus,
		"g_modulus":           params.GModulus,
		"poisson_ratio":       params.PoissonRatio,
		"thermal_coefficient": params.ThermalCoefficient,
	} {
		if p != nil {
			explicit[name] = *p
		}
	}
	if err := checkOverlap(TypeMaterial, explicit, kwargs); err != nil {
		return nil, err
	}
	if err := requirePresent(TypeMaterial, "material_type", explicit, kwargs); err != nil {
		return nil, err
	}

	m := &Material{}
	base, diags := initIdentity(TypeMaterial, kwargs, params.ID, params.Name, params.Description, params.IfcGUID)
	m.BaseEntity = base
	m.record(diags...)
	m.record(applyAttributes(TypeMaterial, m, materialOwnAttributes, kwargs, explicit)...)
	return m, nil
}

func (m *Material) EntityType() string           { return TypeMaterial }
func (m *Material) MaterialType() MaterialType   { return m.materialType }
func (m *Material) Grade() *float64              { return m.grade }
func (m *Material) UnitWeight() *float64         { return m.unitWeight }
func (m *Material) EModulus() *float64           { return m.eModulus }
func (m *Material) GModulus() *float64           { return m.gModulus }
func (m *Material) PoissonRatio() *float64       { return m.poissonRatio }
func (m *Material) ThermalCoefficient() *float64 { return m.thermalCoefficient }

// SetMaterialType rejects values outside the catalog.
func (m *Material) SetMaterialType(t MaterialType) error {
	if _, ok := materialTypes.entry(t); !ok {
		return NewTypeError(TypeMaterial, "material_type", "MaterialType", t)
	}
	m.materialType = t
	return nil
}

func (m *Material) floatSlot(name string) **float64 {
	switch name {
	case "grade":
		return &m.grade
	case "unit_weight":
		return &m.unitWeight
	case "e_modulus":
		return &m.eModulus
	case "g_modulus":
		return &m.gModulus
	case "poisson_ratio":
		return &m.poissonRatio
	case "thermal_coefficient":
		return &m.thermalCoefficient
	}
	return nil
}

// SetAttr sets a Material attribute from an untyped value. The material type also accepts
// its code or label.
func (m *Material) SetAttr(name string, value any) error {
	if ok, err := m.setIdentity(TypeMaterial, name, value); ok {
		return err
	}
	if name == "material_type" {
		t, err := ParseMaterialType(value)
		if err != nil {
			return NewTypeError(TypeMaterial, name, "MaterialType", value)
		}
		return m.SetMaterialType(t)
	}
	slot := m.floatSlot(name)
	if slot == nil {
		return NewTypeError(TypeMaterial, name, "known attribute", value)
	}
	f, err := optionalFloat(TypeMaterial, name, value)
	if err != nil {
		return err
	}
	*slot = f
	return nil
}

func (m *Material) clearAttr(name string) {
	if name == "material_type" {
		m.materialType = 0
		return
	}
	if slot := m.floatSlot(name); slot != nil {
		*slot = nil
	}
}

func (m *Material) properties() Dict {
	return Dict{
		"grade":               floatValue(m.grade),
		"unit_weight":         floatValue(m.unitWeight),
		"e_modulus":           floatValue(m.eModulus),
		"g_modulus":           floatValue(m.gModulus),
		"poisson_ratio":       floatValue(m.poissonRatio),
		"thermal_coefficient": floatValue(m.thermalCoefficient),
	}
}

// ToDict returns the canonical mapping of the material.
func (m *Material) ToDict() Dict {
	d := m.identityDict()
	for k, v := range m.properties() {
		d[k] = v
	}
	d["material_type"] = m.materialType
	return d
}

// ToXmiDict returns the vendor mapping of the material. The type is written as its label.
func (m *Material) ToXmiDict() Dict {
	d := MaterialKeys.toXmiDict(m.properties())
	for k, v := range m.identityXmiDict() {
		d[k] = v
	}
	d["Type"] = m.materialType.String()
	return d
}

// MaterialFromDict decodes a material from a canonical mapping.
func MaterialFromDict(obj Dict) (*Material, ErrorLog) {
	var log ErrorLog
	working := markMissing(TypeMaterial, MaterialAttributes, obj, &log)

	m, err := NewMaterialFromKwargs(MaterialParams{}, working)
	if err != nil {
		log.Add(newInstantiationError(TypeMaterial, obj, err))
		return nil, log
	}
	log.Extend(m.Diagnostics())
	return m, log
}

// MaterialFromXmiDict decodes a material from a vendor mapping.
func MaterialFromXmiDict(obj Dict) (*Material, ErrorLog) {
	return MaterialFromDict(MaterialKeys.Remap(obj))
}
