package xmi

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by this package wraps exactly one of them.
var (
	// ErrTypeViolation is returned by setters that receive a value of the wrong type or shape.
	ErrTypeViolation = errors.New("xmi: type violation")

	// ErrMissingAttribute is logged for every declared attribute absent from a decoded mapping.
	ErrMissingAttribute = errors.New("xmi: missing attribute")

	// ErrMissingRequiredAttribute is returned when a compulsory attribute is absent.
	ErrMissingRequiredAttribute = errors.New("xmi: missing required attribute")

	// ErrMissingReferenceInstance is returned when a required entity reference is absent.
	ErrMissingReferenceInstance = errors.New("xmi: missing reference instance")

	// ErrInconsistentDataType is returned when a decoded value does not have the expected type.
	ErrInconsistentDataType = errors.New("xmi: inconsistent data type")

	// ErrMutualExclusivity is returned when explicit parameters and a keyword bag are mixed.
	ErrMutualExclusivity = errors.New("xmi: use either standard parameters or kwargs, not both")

	// ErrInstantiation wraps a constructor failure recorded while decoding.
	ErrInstantiation = errors.New("xmi: error instantiating")
)

// AttributeError describes a failure on a single attribute of an XMI type.
type AttributeError struct {
	kind      error
	typeName  string
	attribute string
	msg       string
}

// Error returns the error string.
func (e *AttributeError) Error() string {
	return e.msg
}

// Unwrap returns the error kind so errors.Is works against the sentinels.
func (e *AttributeError) Unwrap() error {
	return e.kind
}

// Kind returns the sentinel error kind.
func (e *AttributeError) Kind() error {
	return e.kind
}

// TypeName returns the XMI type the attribute belongs to.
func (e *AttributeError) TypeName() string {
	return e.typeName
}

// Attribute returns the canonical attribute name, if any.
func (e *AttributeError) Attribute() string {
	return e.attribute
}

func newAttributeError(kind error, typeName, attribute, format string, args ...any) *AttributeError {
	return &AttributeError{
		kind:      kind,
		typeName:  typeName,
		attribute: attribute,
		msg:       fmt.Sprintf(format, args...),
	}
}

// NewTypeError reports that attribute received got while expecting expected.
func NewTypeError(typeName, attribute, expected string, got any) *AttributeError {
	return newAttributeError(ErrTypeViolation, typeName, attribute,
		"%s '%s' attribute should be of type %s, got %T instead", typeName, attribute, expected, got)
}

// NewMissingAttributeError reports an absent compulsory attribute.
func NewMissingAttributeError(typeName, attribute string) *AttributeError {
	return newAttributeError(ErrMissingRequiredAttribute, typeName, attribute,
		"the '%s' parameter of %s is compulsory and must be provided", attribute, typeName)
}

func newMissingKeyError(typeName, attribute string) *AttributeError {
	return newAttributeError(ErrMissingAttribute, typeName, attribute,
		"Missing attribute: %s", attribute)
}

// NewMissingReferenceError reports an absent entity reference.
func NewMissingReferenceError(typeName, attribute, expected string) *AttributeError {
	return newAttributeError(ErrMissingReferenceInstance, typeName, attribute,
		"please provide %s value of type %s for %s", attribute, expected, typeName)
}

// NewInconsistentTypeError reports a decoded value of an unexpected type.
func NewInconsistentTypeError(typeName, attribute, expected string, got any) *AttributeError {
	return newAttributeError(ErrInconsistentDataType, typeName, attribute,
		"%s value provided for %s needs to be of type %s, got %T", attribute, typeName, expected, got)
}

// NewMutualExclusivityError reports a constructor called with both modes.
func NewMutualExclusivityError(typeName string) *AttributeError {
	return newAttributeError(ErrMutualExclusivity, typeName, "",
		"%s: please use either standard parameters or kwargs, not both", typeName)
}

func newInstantiationError(typeName string, payload Dict, cause error) *AttributeError {
	return newAttributeError(ErrInstantiation, typeName, "",
		"error instantiating %s: %v (%v)", typeName, map[string]any(payload), cause)
}

// IsTypeViolation reports whether err is a setter type violation.
func IsTypeViolation(err error) bool {
	return errors.Is(err, ErrTypeViolation)
}

// IsMissingAttribute reports whether err records a key absent from a decoded mapping.
func IsMissingAttribute(err error) bool {
	return errors.Is(err, ErrMissingAttribute)
}

// IsMissingRequiredAttribute reports whether err is a missing attribute error.
func IsMissingRequiredAttribute(err error) bool {
	return errors.Is(err, ErrMissingRequiredAttribute)
}

// IsMissingReferenceInstance reports whether err is a missing reference error.
func IsMissingReferenceInstance(err error) bool {
	return errors.Is(err, ErrMissingReferenceInstance)
}

// IsInconsistentDataType reports whether err is an inconsistent data type error.
func IsInconsistentDataType(err error) bool {
	return errors.Is(err, ErrInconsistentDataType)
}

// IsMutualExclusivity reports whether err is a construction mode violation.
func IsMutualExclusivity(err error) bool {
	return errors.Is(err, ErrMutualExclusivity)
}

// IsInstantiation reports whether err records a failed construction.
func IsInstantiation(err error) bool {
	return errors.Is(err, ErrInstantiation)
}

// ErrorLog is the ordered list of non-fatal problems found while decoding a record.
type ErrorLog []error

// Add appends err when it is not nil.
func (l *ErrorLog) Add(err error) {
	if err != nil {
		*l = append(*l, err)
	}
}

// Extend appends every error of other.
func (l *ErrorLog) Extend(other ErrorLog) {
	*l = append(*l, other...)
}

// HasErrors reports whether anything was logged.
func (l ErrorLog) HasErrors() bool {
	return len(l) > 0
}

// Err joins the log into a single error, or nil when empty.
func (l ErrorLog) Err() error {
	return errors.Join(l...)
}

// Strings renders each entry, for transport.
func (l ErrorLog) Strings() []string {
	out := make([]string, len(l))
	for i, err := range l {
		out[i] = err.Error()
	}
	return out
}

// Count returns how many entries wrap kind.
func (l ErrorLog) Count(kind error) int {
	n := 0
	for _, err := range l {
		if errors.Is(err, kind) {
			n++
		}
	}
	return n
}
