package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"

	"truthmines/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullToFloatPtr safely converts sql.NullFloat64 to *float64
func nullToFloatPtr(nf sql.NullFloat64) *float64 {
	if nf.Valid {
		v := nf.Float64
		return &v
	}
	return nil
}

// floatPtrToNull safely converts *float64 to sql.NullFloat64
func floatPtrToNull(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals v to a nullable JSON string.
// Nil and empty maps or slices are stored as NULL.
func marshalToNull(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		if rv.Len() == 0 {
			return sql.NullString{}, nil
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Node Row Scanner
// ============================================================================
//
// Column order must match between nodeColumns, scanArgs() and
// nodeInsertArgs(). Append new columns at the end of all three.

const nodeColumns = `id, type, domain, title, content, formal, tags, metadata, sources, created, updated`

// nodeRow holds all columns from a node query for scanning
type nodeRow struct {
	ID           string
	Type         string
	Domain       string
	Title        string
	Content      sql.NullString
	Formal       sql.NullString
	TagsJSON     sql.NullString
	MetadataJSON sql.NullString
	SourcesJSON  sql.NullString
	Created      sql.NullString
	Updated      sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
func (r *nodeRow) scanArgs() []any {
	return []any{
		&r.ID,
		&r.Type,
		&r.Domain,
		&r.Title,
		&r.Content,
		&r.Formal,
		&r.TagsJSON,
		&r.MetadataJSON,
		&r.SourcesJSON,
		&r.Created,
		&r.Updated,
	}
}

// toDomain converts the scanned row to a domain.Node
func (r *nodeRow) toDomain() (*domain.Node, error) {
	node := &domain.Node{
		ID:      r.ID,
		Type:    domain.NodeType(r.Type),
		Domain:  r.Domain,
		Title:   r.Title,
		Content: nullToString(r.Content),
		Formal:  nullToString(r.Formal),
		Created: nullToString(r.Created),
		Updated: nullToString(r.Updated),
	}

	if err := unmarshalJSONField(r.TagsJSON, &node.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := unmarshalJSONField(r.MetadataJSON, &node.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	if err := unmarshalJSONField(r.SourcesJSON, &node.Sources); err != nil {
		return nil, fmt.Errorf("unmarshal sources: %w", err)
	}

	return node, nil
}

// nodeInsertArgs prepares arguments for node INSERT, in nodeColumns order
func nodeInsertArgs(node *domain.Node) ([]any, error) {
	tagsJSON, err := marshalToNull(node.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	metadataJSON, err := marshalToNull(node.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	sourcesJSON, err := marshalToNull(node.Sources)
	if err != nil {
		return nil, fmt.Errorf("marshal sources: %w", err)
	}

	return []any{
		node.ID,
		string(node.Type),
		node.Domain,
		node.Title,
		stringToNull(node.Content),
		stringToNull(node.Formal),
		tagsJSON,
		metadataJSON,
		sourcesJSON,
		stringToNull(node.Created),
		stringToNull(node.Updated),
	}, nil
}

// ============================================================================
// Edge Row Scanner
// ============================================================================

const edgeColumns = `from_id, to_id, relation, domain, weight`

// edgeRow holds all columns from an edge query for scanning
type edgeRow struct {
	FromID   string
	ToID     string
	Relation string
	Domain   string
	Weight   sql.NullFloat64
}

// scanArgs returns pointers to all fields for sql.Scan()
func (r *edgeRow) scanArgs() []any {
	return []any{&r.FromID, &r.ToID, &r.Relation, &r.Domain, &r.Weight}
}

// toDomain converts the scanned row to a domain.Edge
func (r *edgeRow) toDomain() domain.Edge {
	return domain.Edge{
		From:     r.FromID,
		To:       r.ToID,
		Relation: r.Relation,
		Domain:   r.Domain,
		Weight:   nullToFloatPtr(r.Weight),
	}
}

// edgeInsertArgs prepares arguments for edge INSERT, in edgeColumns order
func edgeInsertArgs(edge *domain.Edge) []any {
	return []any{
		edge.From,
		edge.To,
		edge.Relation,
		edge.Domain,
		floatPtrToNull(edge.Weight),
	}
}
