package xmiimport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"xmimodel/src/domain/xmi"
)

const defaultWorkers = 4

// Importer turns a Document into a Model. Collections are decoded in dependency order so
// every reference points at an entity that already exists: materials, cross sections,
// point connections, then curve members.
type Importer struct {
	logger  *slog.Logger
	workers int
	metrics *Metrics
}

func NewImporter(logger *slog.Logger, workers int, metrics *Metrics) *Importer {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Importer{logger: logger, workers: workers, metrics: metrics}
}

// Import never fails on bad records: they are left out of the Model and explained in the
// returned log. The error is only set when ctx is cancelled.
func (i *Importer) Import(ctx context.Context, doc Document) (*Model, xmi.ErrorLog, error) {
	start := time.Now()
	defer i.metrics.observeDuration(start)

	model := newModel()
	var log xmi.ErrorLog

	steps := []func(context.Context, Document, *Model) (xmi.ErrorLog, error){
		i.importMaterials,
		i.importCrossSections,
		i.importPointConnections,
		i.importCurveMembers,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, log, fmt.Errorf("Importer.Import - cancelled: %w", err)
		}
		stepLog, err := step(ctx, doc, model)
		log.Extend(stepLog)
		if err != nil {
			return nil, log, fmt.Errorf("Importer.Import - cancelled: %w", err)
		}
	}

	log.Extend(linkModel(model))

	i.metrics.observeErrors(log)
	i.logger.Info("XMI document imported",
		"records", doc.RecordCount(),
		"materials", len(model.Materials),
		"crossSections", len(model.CrossSections),
		"pointConnections", len(model.PointConnections),
		"curveMembers", len(model.CurveMembers),
		"relationships", len(model.Relationships),
		"errors", len(log),
		"elapsed", time.Since(start))

	return model, log, nil
}

func (i *Importer) importMaterials(_ context.Context, doc Document, model *Model) (xmi.ErrorLog, error) {
	var log xmi.ErrorLog
	for idx, record := range doc[xmi.TypeMaterial] {
		material, errs := xmi.MaterialFromXmiDict(record)
		log.Extend(inRecord(xmi.TypeMaterial, idx, record, errs))
		i.metrics.observeRecord(xmi.TypeMaterial, material != nil)
		if material != nil {
			model.Materials = append(model.Materials, material)
			model.materials.add(material)
		}
	}
	return log, nil
}

func (i *Importer) importCrossSections(_ context.Context, doc Document, model *Model) (xmi.ErrorLog, error) {
	vendorKey, _ := xmi.CrossSectionKeys.VendorKey("material")

	var log xmi.ErrorLog
	for idx, record := range doc[xmi.TypeCrossSection] {
		working := record.Copy()
		var refs xmi.CrossSectionRefs
		if key, ok := working[vendorKey].(string); ok {
			if material, found := model.materials.resolve(key); found {
				refs.Material = material
			} else {
				// the decoder reports the reference as missing
				delete(working, vendorKey)
			}
		}

		section, errs := xmi.CrossSectionFromXmiDict(working, refs)
		log.Extend(inRecord(xmi.TypeCrossSection, idx, record, errs))
		i.metrics.observeRecord(xmi.TypeCrossSection, section != nil)
		if section != nil {
			model.CrossSections = append(model.CrossSections, section)
			model.crossSections.add(section)
		}
	}
	return log, nil
}

func (i *Importer) importPointConnections(_ context.Context, doc Document, model *Model) (xmi.ErrorLog, error) {
	var log xmi.ErrorLog
	for idx, record := range doc[xmi.TypePointConnection] {
		node, errs := xmi.PointConnectionFromXmiDict(record)
		log.Extend(inRecord(xmi.TypePointConnection, idx, record, errs))
		i.metrics.observeRecord(xmi.TypePointConnection, node != nil)
		if node != nil {
			model.PointConnections = append(model.PointConnections, node)
			model.pointConnections.add(node)
		}
	}
	return log, nil
}

// importCurveMembers decodes members in parallel. Workers only read the sibling indexes,
// which are complete by now, and write to their own result slot.
func (i *Importer) importCurveMembers(ctx context.Context, doc Document, model *Model) (xmi.ErrorLog, error) {
	records := doc[xmi.TypeCurveMember]
	members := make([]*xmi.CurveMember, len(records))
	logs := make([]xmi.ErrorLog, len(records))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(i.workers)

	for idx, record := range records {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				members[idx], logs[idx] = decodeCurveMember(model, idx, record)
				return nil
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var log xmi.ErrorLog
	for idx, member := range members {
		log.Extend(logs[idx])
		i.metrics.observeRecord(xmi.TypeCurveMember, member != nil)
		if member != nil {
			model.CurveMembers = append(model.CurveMembers, member)
		}
	}
	return log, nil
}

var curveMemberVendorKeys = struct {
	crossSection, nodes, segments, beginNode, endNode string
}{
	crossSection: mustVendorKey("cross_section"),
	nodes:        mustVendorKey("nodes"),
	segments:     mustVendorKey("segments"),
	beginNode:    mustVendorKey("begin_node"),
	endNode:      mustVendorKey("end_node"),
}

func mustVendorKey(canonical string) string {
	key, ok := xmi.CurveMemberKeys.VendorKey(canonical)
	if !ok {
		panic("xmiimport: no vendor key for " + canonical)
	}
	return key
}

// decodeCurveMember swaps the id placeholders of a record for the decoded siblings.
// Placeholders that resolve to nothing are dropped so the decoder reports them missing.
func decodeCurveMember(model *Model, idx int, record xmi.Dict) (*xmi.CurveMember, xmi.ErrorLog) {
	keys := curveMemberVendorKeys
	working := record.Copy()
	var refs xmi.CurveMemberRefs
	var log xmi.ErrorLog

	if key, ok := working[keys.crossSection].(string); ok {
		if section, found := model.crossSections.resolve(key); found {
			refs.CrossSection = section
		} else {
			delete(working, keys.crossSection)
		}
	}

	resolveNode := func(vendorKey string) *xmi.PointConnection {
		key, ok := working[vendorKey].(string)
		if !ok {
			return nil
		}
		node, found := model.pointConnections.resolve(key)
		if !found {
			delete(working, vendorKey)
			return nil
		}
		return node
	}
	refs.BeginNode = resolveNode(keys.beginNode)
	refs.EndNode = resolveNode(keys.endNode)

	if ids, ok := splitList(working[keys.nodes]); ok {
		nodes := make([]*xmi.PointConnection, 0, len(ids))
		for _, id := range ids {
			node, found := model.pointConnections.resolve(id)
			if !found {
				log.Add(fmt.Errorf("node %q: %w", id,
					xmi.NewMissingReferenceError(xmi.TypeCurveMember, "nodes", xmi.TypePointConnection)))
				nodes = nil
				break
			}
			nodes = append(nodes, node)
		}

		if nodes == nil {
			delete(working, keys.nodes)
			delete(working, keys.segments)
		} else {
			refs.Nodes = nodes
			if _, present := working[keys.segments]; present {
				segments, err := buildSegments(working[keys.segments], nodes)
				if err != nil {
					log.Add(err)
					delete(working, keys.segments)
				} else {
					refs.Segments = segments
				}
			}
		}
	}

	member, errs := xmi.CurveMemberFromXmiDict(working, refs)
	log.Extend(errs)
	return member, inRecord(xmi.TypeCurveMember, idx, record, log)
}

// buildSegments creates one Line3D per span between consecutive nodes. The vendor value
// lists one segment type per span, or a single type for every span.
func buildSegments(raw any, nodes []*xmi.PointConnection) ([]xmi.Geometry, error) {
	labels, ok := splitList(raw)
	if !ok {
		return nil, xmi.NewInconsistentTypeError(xmi.TypeCurveMember, "segments", "segment type list", raw)
	}

	spans := len(nodes) - 1
	if spans < 1 {
		return nil, fmt.Errorf("%w: %s needs at least two nodes to build segments, got %d",
			xmi.ErrMissingRequiredAttribute, xmi.TypeCurveMember, len(nodes))
	}
	if len(labels) == 1 && spans > 1 {
		labels = repeat(labels[0], spans)
	}
	if len(labels) != spans {
		return nil, fmt.Errorf("%w: %s lists %d segment types for %d spans",
			xmi.ErrInconsistentDataType, xmi.TypeCurveMember, len(labels), spans)
	}

	segments := make([]xmi.Geometry, spans)
	for k, label := range labels {
		segmentType, err := xmi.ParseSegmentType(label)
		if err != nil {
			return nil, err
		}
		if segmentType != xmi.SegmentLine {
			return nil, fmt.Errorf("%w: %s segment type %s has no geometry",
				xmi.ErrInconsistentDataType, xmi.TypeCurveMember, segmentType)
		}
		line, err := xmi.NewLine3D(nodes[k].Point(), nodes[k+1].Point())
		if err != nil {
			return nil, err
		}
		segments[k] = line
	}
	return segments, nil
}

// splitList accepts the vendor ";" separated form or a list of strings.
func splitList(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case string:
		parts := strings.Split(v, ";")
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		return values, len(values) > 0
	case []string:
		return v, len(v) > 0
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			values = append(values, s)
		}
		return values, len(values) > 0
	default:
		return nil, false
	}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for k := range out {
		out[k] = s
	}
	return out
}

// linkModel builds the relationships of the decoded entities.
func linkModel(model *Model) xmi.ErrorLog {
	var log xmi.ErrorLog
	add := func(rel xmi.Relationship, err error) {
		if err != nil {
			log.Add(err)
			return
		}
		model.Relationships = append(model.Relationships, rel)
	}

	for _, section := range model.CrossSections {
		add(xmi.NewHasMaterial(section, section.Material()))
	}

	for _, member := range model.CurveMembers {
		add(xmi.NewHasCrossSection(member, member.CrossSection()))

		seen := make(map[string]bool, len(member.Nodes()))
		for _, node := range member.Nodes() {
			if seen[node.ID()] {
				continue
			}
			seen[node.ID()] = true
			add(xmi.NewHasPointConnection(member, node))
		}
	}
	return log
}
