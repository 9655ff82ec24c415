package xmi

import "slices"

// CrossSection is the profile shared by curve members.
type CrossSection struct {
	BaseEntity
	diagnostics
	material   *Material
	shape      string
	parameters []float64
	area       *float64
}

// CrossSectionParams are the typed construction parameters of a CrossSection.
type CrossSectionParams struct {
	ID          string
	Name        string
	Description string
	IfcGUID     string
	Material    *Material
	Shape       string
	Parameters  []float64
	Area        *float64
}

// CrossSectionRefs are already built siblings injected by CrossSectionFromXmiDict.
type CrossSectionRefs struct {
	Material *Material
}

var crossSectionOwnAttributes = []string{"material", "shape", "parameters", "area"}

// CrossSectionAttributes is the closed attribute list of CrossSection.
var CrossSectionAttributes = withIdentity(crossSectionOwnAttributes...)

// NewCrossSection builds a cross section from typed parameters.
func NewCrossSection(params CrossSectionParams) (*CrossSection, error) {
	return NewCrossSectionFromKwargs(params, nil)
}

// NewCrossSectionFromKwargs builds a cross section from a keyword bag. The material
// reference may be passed explicitly next to kwargs.
func NewCrossSectionFromKwargs(params CrossSectionParams, kwargs Dict) (*CrossSection, error) {
	err := checkStandardParams(TypeCrossSection, kwargs,
		params.ID != "", params.Name != "", params.Description != "", params.IfcGUID != "")
	if err != nil {
		return nil, err
	}

	explicit := Dict{}
	if params.Material != nil {
		explicit["material"] = params.Material
	}
	if params.Shape != "" {
		explicit["shape"] = params.Shape
	}
	if params.Parameters != nil {
		explicit["parameters"] = params.Parameters
	}
	if params.Area != nil {
		explicit["area"] = *params.Area
	}
	if err := checkOverlap(TypeCrossSection, explicit, kwargs); err != nil {
		return nil, err
	}
	for _, name := range []string{"material", "shape"} {
		if err := requirePresent(TypeCrossSection, name, explicit, kwargs); err != nil {
			return nil, err
		}
	}

	cs := &CrossSection{}
	base, diags := initIdentity(TypeCrossSection, kwargs, params.ID, params.Name, params.Description, params.IfcGUID)
	cs.BaseEntity = base
	cs.record(diags...)
	cs.record(applyAttributes(TypeCrossSection, cs, crossSectionOwnAttributes, kwargs, explicit)...)
	return cs, nil
}

func (cs *CrossSection) EntityType() string    { return TypeCrossSection }
func (cs *CrossSection) Material() *Material   { return cs.material }
func (cs *CrossSection) Shape() string         { return cs.shape }
func (cs *CrossSection) Parameters() []float64 { return slices.Clone(cs.parameters) }
func (cs *CrossSection) Area() *float64        { return cs.area }

func (cs *CrossSection) SetMaterial(m *Material) error {
	if m == nil {
		return NewTypeError(TypeCrossSection, "material", TypeMaterial, m)
	}
	cs.material = m
	return nil
}

func (cs *CrossSection) SetShape(shape string) error {
	if shape == "" {
		return NewMissingAttributeError(TypeCrossSection, "shape")
	}
	cs.shape = shape
	return nil
}

func (cs *CrossSection) SetParameters(parameters []float64) {
	cs.parameters = append([]float64(nil), parameters...)
}

// SetAttr sets a CrossSection attribute from an untyped value.
func (cs *CrossSection) SetAttr(name string, value any) error {
	if ok, err := cs.setIdentity(TypeCrossSection, name, value); ok {
		return err
	}
	switch name {
	case "material":
		m, ok := value.(*Material)
		if !ok {
			return NewTypeError(TypeCrossSection, name, TypeMaterial, value)
		}
		return cs.SetMaterial(m)
	case "shape":
		s, ok := value.(string)
		if !ok {
			return NewTypeError(TypeCrossSection, name, "string", value)
		}
		return cs.SetShape(s)
	case "parameters":
		if value == nil {
			cs.parameters = nil
			return nil
		}
		values, ok := toFloats(value)
		if !ok {
			return NewTypeError(TypeCrossSection, name, "list of float", value)
		}
		cs.SetParameters(values)
		return nil
	case "area":
		f, err := optionalFloat(TypeCrossSection, name, value)
		if err != nil {
			return err
		}
		cs.area = f
		return nil
	}
	return NewTypeError(TypeCrossSection, name, "known attribute", value)
}

func (cs *CrossSection) clearAttr(name string) {
	switch name {
	case "material":
		cs.material = nil
	case "shape":
		cs.shape = ""
	case "parameters":
		cs.parameters = nil
	case "area":
		cs.area = nil
	}
}

// ToDict returns the canonical mapping of the cross section.
func (cs *CrossSection) ToDict() Dict {
	d := cs.identityDict()
	d["material"] = cs.material
	d["shape"] = cs.shape
	d["parameters"] = nil
	if cs.parameters != nil {
		d["parameters"] = slices.Clone(cs.parameters)
	}
	d["area"] = floatValue(cs.area)
	return d
}

// ToXmiDict returns the vendor mapping. The material is written as its id and the parameters
// as "a;b;c".
func (cs *CrossSection) ToXmiDict() Dict {
	d := cs.identityXmiDict()
	if cs.material != nil {
		d["Material"] = cs.material.ID()
	}
	d["Shape"] = cs.shape
	if len(cs.parameters) > 0 {
		d["Parameters"] = formatFloats(cs.parameters)
	}
	d["Area"] = floatValue(cs.area)
	return d
}

// CrossSectionFromDict decodes a cross section from a canonical mapping. Parameters given as
// a delimited string are parsed; a malformed string is logged and the parameters left absent.
func CrossSectionFromDict(obj Dict) (*CrossSection, ErrorLog) {
	var log ErrorLog
	working := markMissing(TypeCrossSection, CrossSectionAttributes, obj, &log)

	raw, ok := working.lookup("material")
	if !ok {
		log.Add(NewMissingReferenceError(TypeCrossSection, "material", TypeMaterial))
		return nil, log
	}
	material, isMaterial := raw.(*Material)
	if !isMaterial || material == nil {
		log.Add(NewInconsistentTypeError(TypeCrossSection, "material", TypeMaterial, raw))
		return nil, log
	}
	delete(working, "material")

	if s, isString := working["parameters"].(string); isString {
		values, err := parseDelimitedFloats(TypeCrossSection, "parameters", s, -1)
		if err != nil {
			log.Add(err)
			working["parameters"] = nil
		} else {
			working["parameters"] = values
		}
	}

	cs, err := NewCrossSectionFromKwargs(CrossSectionParams{Material: material}, working)
	if err != nil {
		log.Add(newInstantiationError(TypeCrossSection, obj, err))
		return nil, log
	}
	log.Extend(cs.Diagnostics())
	return cs, log
}

// CrossSectionFromXmiDict decodes a cross section from a vendor mapping, injecting an already
// built material in place of its foreign key.
func CrossSectionFromXmiDict(obj Dict, refs CrossSectionRefs) (*CrossSection, ErrorLog) {
	working := CrossSectionKeys.Remap(obj)
	if _, ok := working["material"]; ok && refs.Material != nil {
		working["material"] = refs.Material
	}
	return CrossSectionFromDict(working)
}
