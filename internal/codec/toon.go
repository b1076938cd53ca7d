package codec

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"truthmines/internal/domain"
)

// TOON is a line-oriented tabular format. Each group is a header line
//
//	key[count]{field1,field2,...}:
//
// followed by one comma-separated row per record and a blank line.
// Values are written verbatim; there is no quoting or escaping. A value
// holding a comma or a line break does not round-trip, and neither does
// a row whose last value ends in ':', which reads back as a header.
// Check reports such cells before they are written.

// NodeGroup is the group key of node-summary tables
const NodeGroup = "nodes"

// Canonical column lists
var (
	NodeFields         = []string{"id", "type", "domain", "title"}
	EdgeFields         = []string{"f", "t", "domain"}
	WeightedEdgeFields = []string{"f", "t", "w", "domain"}
)

// Table is one TOON group
type Table struct {
	Key    string
	Fields []string
	Rows   [][]string

	// Count is the count declared in a decoded header. Encoding always
	// writes len(Rows).
	Count int
}

// Header renders the group header line without a trailing newline
func (t *Table) Header() string {
	return fmt.Sprintf("%s[%d]{%s}:", t.Key, len(t.Rows), strings.Join(t.Fields, ","))
}

// Field returns the value of the named column in row i, or "" when the
// table has no such column
func (t *Table) Field(i int, name string) string {
	for j, f := range t.Fields {
		if f == name && j < len(t.Rows[i]) {
			return t.Rows[i][j]
		}
	}
	return ""
}

// Encode writes tables in the order given
func Encode(w io.Writer, tables []Table) error {
	bw := bufio.NewWriter(w)
	for i := range tables {
		t := &tables[i]
		if _, err := fmt.Fprintln(bw, t.Header()); err != nil {
			return err
		}
		for _, row := range t.Rows {
			if _, err := fmt.Fprintln(bw, strings.Join(row, ",")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeError reports a malformed TOON line
type DecodeError struct {
	Line int
	Msg  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("toon: line %d: %s", e.Line, e.Msg)
}

// Decode reads every group from r in file order
func Decode(r io.Reader) ([]Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var tables []Table
	current := -1
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		if strings.HasSuffix(text, ":") {
			t, err := parseHeader(text)
			if err != nil {
				return nil, &DecodeError{Line: line, Msg: err.Error()}
			}
			tables = append(tables, t)
			current = len(tables) - 1
			continue
		}

		if current < 0 {
			return nil, &DecodeError{Line: line, Msg: "row before any header"}
		}
		t := &tables[current]
		values := strings.Split(text, ",")
		if len(values) != len(t.Fields) {
			return nil, &DecodeError{
				Line: line,
				Msg:  fmt.Sprintf("row has %d fields, header %q declares %d", len(values), t.Key, len(t.Fields)),
			}
		}
		t.Rows = append(t.Rows, values)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("toon: %w", err)
	}

	return tables, nil
}

// parseHeader parses "key[count]{fields}:"
func parseHeader(text string) (Table, error) {
	open := strings.Index(text, "[")
	if open <= 0 {
		return Table{}, fmt.Errorf("malformed header %q: missing key or count", text)
	}
	closeIdx := strings.Index(text[open:], "]")
	if closeIdx < 0 {
		return Table{}, fmt.Errorf("malformed header %q: unterminated count", text)
	}
	closeIdx += open

	count, err := strconv.Atoi(text[open+1 : closeIdx])
	if err != nil || count < 0 {
		return Table{}, fmt.Errorf("malformed header %q: bad count", text)
	}

	rest := text[closeIdx+1 : len(text)-1]
	if !strings.HasPrefix(rest, "{") || !strings.HasSuffix(rest, "}") {
		return Table{}, fmt.Errorf("malformed header %q: missing field list", text)
	}
	fieldList := rest[1 : len(rest)-1]
	if fieldList == "" {
		return Table{}, fmt.Errorf("malformed header %q: empty field list", text)
	}

	return Table{
		Key:    text[:open],
		Fields: strings.Split(fieldList, ","),
		Rows:   make([][]string, 0, count),
		Count:  count,
	}, nil
}

// EdgeTables groups edges by relation, keys sorted. Edges keep their
// order within a group. The weight column appears only in groups where
// some edge carries a weight.
func EdgeTables(edges []domain.Edge) []Table {
	groups := (&domain.GraphFragment{Edges: edges}).EdgesByRelation()

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tables := make([]Table, 0, len(keys))
	for _, key := range keys {
		group := groups[key]

		weighted := false
		for i := range group {
			if group[i].HasWeight() {
				weighted = true
				break
			}
		}

		t := Table{Key: key, Fields: EdgeFields}
		if weighted {
			t.Fields = WeightedEdgeFields
		}
		for i := range group {
			e := &group[i]
			if weighted {
				t.Rows = append(t.Rows, []string{e.From, e.To, e.WeightString(), e.Domain})
			} else {
				t.Rows = append(t.Rows, []string{e.From, e.To, e.Domain})
			}
		}
		t.Count = len(t.Rows)
		tables = append(tables, t)
	}
	return tables
}

// PackTables lays out fragment as a context pack: the node-summary group
// followed by the relation groups
func PackTables(fragment *domain.GraphFragment) []Table {
	return append([]Table{NodeTable(fragment.Nodes)}, EdgeTables(fragment.Edges)...)
}

// Ambiguity is a value that Decode would not read back as written
type Ambiguity struct {
	Key string
	// Row is 1-based within the group; 0 means the group key itself
	Row    int
	Value  string
	Reason string
}

func (a Ambiguity) String() string {
	if a.Row == 0 {
		return fmt.Sprintf("group %q: %s", a.Key, a.Reason)
	}
	return fmt.Sprintf("group %q row %d: %q %s", a.Key, a.Row, a.Value, a.Reason)
}

// Check lists the keys and cells of tables that do not survive an
// Encode/Decode round trip
func Check(tables []Table) []Ambiguity {
	var out []Ambiguity
	for ti := range tables {
		t := &tables[ti]
		if t.Key == "" || strings.ContainsAny(t.Key, "[,\r\n") {
			out = append(out, Ambiguity{Key: t.Key, Value: t.Key, Reason: "is not a usable group key"})
		}
		for ri, row := range t.Rows {
			for ci, v := range row {
				switch {
				case strings.ContainsAny(v, "\r\n"):
					out = append(out, Ambiguity{Key: t.Key, Row: ri + 1, Value: v, Reason: "contains a line break"})
				case strings.Contains(v, ","):
					out = append(out, Ambiguity{Key: t.Key, Row: ri + 1, Value: v, Reason: "contains a comma"})
				case ci == len(row)-1 && strings.HasSuffix(v, ":"):
					out = append(out, Ambiguity{Key: t.Key, Row: ri + 1, Value: v, Reason: "ends the row with ':' and reads back as a header"})
				}
			}
		}
	}
	return out
}

// NodeTable renders node summaries sorted by id
func NodeTable(nodes []domain.Node) Table {
	sorted := make([]domain.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	t := Table{Key: NodeGroup, Fields: NodeFields, Rows: make([][]string, 0, len(sorted))}
	for i := range sorted {
		s := sorted[i].Summary()
		t.Rows = append(t.Rows, []string{s.ID, s.Type, s.Domain, s.Title})
	}
	t.Count = len(t.Rows)
	return t
}

// TOONCodec exports fragments as TOON packs: the node-summary group
// followed by one group per relation.
type TOONCodec struct{}

// NewTOONCodec creates a new TOON codec
func NewTOONCodec() *TOONCodec {
	return &TOONCodec{}
}

// Format returns the codec format identifier
func (c *TOONCodec) Format() string {
	return "toon"
}

// Export writes fragment as a TOON pack
func (c *TOONCodec) Export(fragment *domain.GraphFragment, w io.Writer) error {
	if err := Encode(w, PackTables(fragment)); err != nil {
		return fmt.Errorf("failed to encode TOON: %w", err)
	}
	return nil
}

// Parse reads a TOON pack. The node group yields summary-only nodes;
// every other group yields edges whose relation is the group key.
func (c *TOONCodec) Parse(r io.Reader) (*domain.GraphFragment, error) {
	tables, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOON: %w", err)
	}

	fragment := domain.NewGraphFragment()
	for ti := range tables {
		t := &tables[ti]
		if t.Key == NodeGroup {
			for i := range t.Rows {
				fragment.AddNode(*domain.NewNode(
					t.Field(i, "id"),
					domain.NodeType(t.Field(i, "type")),
					t.Field(i, "domain"),
					t.Field(i, "title"),
				))
			}
			continue
		}

		for i := range t.Rows {
			edge := *domain.NewEdge(t.Field(i, "f"), t.Field(i, "t"), t.Key, t.Field(i, "domain"))
			if w := t.Field(i, "w"); w != "" {
				weighted, err := edge.WithWeightLiteral(w)
				if err != nil {
					return nil, fmt.Errorf("failed to parse TOON: group %q row %d: bad weight %q", t.Key, i+1, w)
				}
				edge = weighted
			}
			fragment.AddEdge(edge)
		}
	}

	return fragment, nil
}
