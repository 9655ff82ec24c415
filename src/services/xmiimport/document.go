package xmiimport

import (
	"encoding/json"
	"fmt"
	"mime"

	"gopkg.in/yaml.v3"

	"xmimodel/src/domain/xmi"
)

// Document is a vendor export: records grouped by collection name
// (StructuralMaterial, StructuralCrossSection, ...). Unknown collections are ignored.
type Document map[string][]xmi.Dict

// DecodeDocument parses a JSON document.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("xmiimport.DecodeDocument - invalid document: %w", err)
	}
	return doc, nil
}

// DecodeYAMLDocument parses the same layout written as YAML.
func DecodeYAMLDocument(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("xmiimport.DecodeYAMLDocument - invalid document: %w", err)
	}
	return doc, nil
}

// DecoderFor picks the document decoder for a media type. YAML types select
// DecodeYAMLDocument; anything else, parameters and case aside, is read as JSON.
func DecoderFor(contentType string) func([]byte) (Document, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return DecodeYAMLDocument
	default:
		return DecodeDocument
	}
}

// RecordCount is the number of records in the collections the importer reads.
func (d Document) RecordCount() int {
	n := 0
	for _, collection := range importOrder {
		n += len(d[collection])
	}
	return n
}

var importOrder = []string{
	xmi.TypeMaterial,
	xmi.TypeCrossSection,
	xmi.TypePointConnection,
	xmi.TypeCurveMember,
}

// RecordError places a decode error in its document record.
type RecordError struct {
	Collection string
	Index      int
	ID         string
	Err        error
}

func (e *RecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s[%d]: %v", e.Collection, e.Index, e.Err)
	}
	return fmt.Sprintf("%s[%d] %s: %v", e.Collection, e.Index, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func inRecord(collection string, index int, record xmi.Dict, errs xmi.ErrorLog) xmi.ErrorLog {
	if len(errs) == 0 {
		return nil
	}
	id, _ := record["ID"].(string)
	wrapped := make(xmi.ErrorLog, len(errs))
	for i, err := range errs {
		wrapped[i] = &RecordError{Collection: collection, Index: index, ID: id, Err: err}
	}
	return wrapped
}
