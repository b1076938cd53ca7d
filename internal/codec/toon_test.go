package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truthmines/internal/domain"
)

func scenarioEdges() []domain.Edge {
	return []domain.Edge{
		domain.NewEdge("a", "b", "supports", "philosophy").WithWeight(0.9),
		*domain.NewEdge("b", "c", "supports", "mathematics"),
	}
}

func encodeString(t *testing.T, tables []Table) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tables))
	return buf.String()
}

func TestEdgeTables_Scenario(t *testing.T) {
	out := encodeString(t, EdgeTables(scenarioEdges()))

	assert.Equal(t, "supports[2]{f,t,w,domain}:\na,b,0.9,philosophy\nb,c,,mathematics\n\n", out)
}

func TestEdgeTables(t *testing.T) {
	edges := []domain.Edge{
		*domain.NewEdge("cccccc", "dddddd", "supports", "physics"),
		*domain.NewEdge("aaaaaa", "bbbbbb", "attacks", "philosophy"),
		domain.NewEdge("aaaaaa", "cccccc", "attacks", "philosophy").WithWeight(1.0),
		*domain.NewEdge("bbbbbb", "aaaaaa", "", "philosophy"),
		*domain.NewEdge("dddddd", "aaaaaa", "supports", "physics"),
	}

	tables := EdgeTables(edges)
	require.Len(t, tables, 3)

	t.Run("groups sorted by key", func(t *testing.T) {
		assert.Equal(t, "attacks", tables[0].Key)
		assert.Equal(t, "supports", tables[1].Key)
		assert.Equal(t, "unknown", tables[2].Key)
	})

	t.Run("weight column only where used", func(t *testing.T) {
		assert.Equal(t, WeightedEdgeFields, tables[0].Fields)
		assert.Equal(t, EdgeFields, tables[1].Fields)
	})

	t.Run("whole weights keep a decimal", func(t *testing.T) {
		assert.Equal(t, []string{"aaaaaa", "cccccc", "1.0", "philosophy"}, tables[0].Rows[1])
		assert.Equal(t, []string{"aaaaaa", "bbbbbb", "", "philosophy"}, tables[0].Rows[0])
	})

	t.Run("rows keep load order", func(t *testing.T) {
		assert.Equal(t, "cccccc", tables[1].Rows[0][0])
		assert.Equal(t, "dddddd", tables[1].Rows[1][0])
	})

	t.Run("header count equals row count", func(t *testing.T) {
		for _, table := range tables {
			assert.Equal(t, len(table.Rows), table.Count)
			assert.True(t, strings.HasPrefix(table.Header(), table.Key+"["))
		}
		assert.Equal(t, "supports[2]{f,t,domain}:", tables[1].Header())
	})
}

func TestEdgeTables_Empty(t *testing.T) {
	assert.Empty(t, EdgeTables(nil))
	assert.Equal(t, "", encodeString(t, EdgeTables(nil)))
}

func TestNodeTable(t *testing.T) {
	nodes := []domain.Node{
		*domain.NewNode("zzz999", domain.NodeTypeTheorem, "mathematics", "Last"),
		*domain.NewNode("aaa111", domain.NodeTypeAxiom, "philosophy", "First"),
	}

	out := encodeString(t, []Table{NodeTable(nodes)})
	assert.Equal(t,
		"nodes[2]{id,type,domain,title}:\n"+
			"aaa111,axiom,philosophy,First\n"+
			"zzz999,theorem,mathematics,Last\n\n",
		out)
	assert.Equal(t, "zzz999", nodes[0].ID, "input is not reordered")
}

func TestEncode_Deterministic(t *testing.T) {
	edges := []domain.Edge{
		*domain.NewEdge("a", "b", "z", "x"),
		*domain.NewEdge("a", "b", "m", "x"),
		*domain.NewEdge("a", "b", "a", "x"),
		*domain.NewEdge("b", "a", "m", "x"),
	}

	first := encodeString(t, EdgeTables(edges))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, encodeString(t, EdgeTables(edges)))
	}
}

func TestDecode(t *testing.T) {
	t.Run("scenario round trip", func(t *testing.T) {
		encoded := EdgeTables(scenarioEdges())
		decoded, err := Decode(strings.NewReader(encodeString(t, encoded)))
		require.NoError(t, err)

		require.Len(t, decoded, 1)
		assert.Equal(t, "supports", decoded[0].Key)
		assert.Equal(t, 2, decoded[0].Count)
		assert.Equal(t, WeightedEdgeFields, decoded[0].Fields)
		assert.Equal(t, encoded[0].Rows, decoded[0].Rows)
		assert.Equal(t, "", decoded[0].Field(1, "w"))
		assert.Equal(t, "mathematics", decoded[0].Field(1, "domain"))
	})

	t.Run("multiple groups and CRLF", func(t *testing.T) {
		input := "nodes[1]{id,type,domain,title}:\r\naaaaaa,axiom,philosophy,T\r\n\r\nattacks[1]{f,t,domain}:\r\naaaaaa,bbbbbb,philosophy\r\n"
		decoded, err := Decode(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, decoded, 2)
		assert.Equal(t, "nodes", decoded[0].Key)
		assert.Equal(t, []string{"aaaaaa", "axiom", "philosophy", "T"}, decoded[0].Rows[0])
		assert.Equal(t, "attacks", decoded[1].Key)
	})

	t.Run("declared count is kept", func(t *testing.T) {
		decoded, err := Decode(strings.NewReader("supports[5]{f,t,domain}:\na,b,x\n"))
		require.NoError(t, err)
		assert.Equal(t, 5, decoded[0].Count)
		assert.Len(t, decoded[0].Rows, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		decoded, err := Decode(strings.NewReader("\n\n"))
		require.NoError(t, err)
		assert.Empty(t, decoded)
	})
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"row before header", "a,b,x\n", 1},
		{"too many fields", "supports[1]{f,t,domain}:\na,b,x,extra\n", 2},
		{"too few fields", "\nsupports[1]{f,t,w,domain}:\na,b,x\n", 3},
		{"missing count", "supports{f,t}:\n", 1},
		{"non numeric count", "supports[x]{f,t}:\n", 1},
		{"missing fields", "supports[1]:\n", 1},
		{"missing key", "[1]{f,t}:\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.line, decodeErr.Line)
		})
	}
}

func TestTOONCodec(t *testing.T) {
	fragment := domain.NewGraphFragment()
	fragment.AddNode(*domain.NewNode("bbbbbb", domain.NodeTypeConcept, "physics", "Energy"))
	fragment.AddNode(*domain.NewNode("aaaaaa", domain.NodeTypeAxiom, "philosophy", "Identity"))
	fragment.AddEdge(domain.NewEdge("aaaaaa", "bbbbbb", "supports", "philosophy").WithWeight(0.25))
	fragment.AddEdge(*domain.NewEdge("bbbbbb", "aaaaaa", "attacks", "physics"))

	c := NewTOONCodec()
	assert.Equal(t, "toon", c.Format())

	var buf bytes.Buffer
	require.NoError(t, c.Export(fragment, &buf))
	assert.Equal(t,
		"nodes[2]{id,type,domain,title}:\n"+
			"aaaaaa,axiom,philosophy,Identity\n"+
			"bbbbbb,concept,physics,Energy\n\n"+
			"attacks[1]{f,t,domain}:\n"+
			"bbbbbb,aaaaaa,physics\n\n"+
			"supports[1]{f,t,w,domain}:\n"+
			"aaaaaa,bbbbbb,0.25,philosophy\n\n",
		buf.String())

	parsed, err := c.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, parsed.Nodes, 2)
	assert.Equal(t, "aaaaaa", parsed.Nodes[0].ID)
	assert.Equal(t, domain.NodeTypeAxiom, parsed.Nodes[0].Type)
	assert.Equal(t, "Identity", parsed.Nodes[0].Title)

	require.Len(t, parsed.Edges, 2)
	assert.Equal(t, "attacks", parsed.Edges[0].Relation)
	assert.Nil(t, parsed.Edges[0].Weight)
	assert.Equal(t, "supports", parsed.Edges[1].Relation)
	require.NotNil(t, parsed.Edges[1].Weight)
	assert.Equal(t, 0.25, *parsed.Edges[1].Weight)
}

func TestTOONCodec_WeightLiteralsRoundTrip(t *testing.T) {
	pack := "nodes[0]{id,type,domain,title}:\n\n" +
		"supports[3]{f,t,w,domain}:\n" +
		"a,b,1,x\n" +
		"a,c,1.0,x\n" +
		"b,c,1e-05,x\n\n"

	c := NewTOONCodec()
	fragment, err := c.Parse(strings.NewReader(pack))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.Export(fragment, &buf))
	assert.Equal(t, pack, buf.String())
}

func TestTOONCodec_BadWeight(t *testing.T) {
	_, err := NewTOONCodec().Parse(strings.NewReader("supports[1]{f,t,w,domain}:\na,b,heavy,x\n"))
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	fragment := domain.NewGraphFragment()
	fragment.AddNode(*domain.NewNode("aaaaaa", domain.NodeTypeTheorem, "mathematics", "Lemma:"))
	fragment.AddNode(*domain.NewNode("bbbbbb", domain.NodeTypeTheorem, "mathematics", "Zorn, lemma"))
	fragment.AddNode(*domain.NewNode("cccccc", domain.NodeTypeTheorem, "mathematics", "Plain"))
	fragment.AddEdge(*domain.NewEdge("aaaaaa", "cccccc", "supports", "mathematics"))

	tables := PackTables(fragment)
	issues := Check(tables)
	require.Len(t, issues, 2)

	assert.Equal(t, Ambiguity{Key: "nodes", Row: 1, Value: "Lemma:", Reason: "ends the row with ':' and reads back as a header"}, issues[0])
	assert.Equal(t, "nodes", issues[1].Key)
	assert.Equal(t, 2, issues[1].Row)
	assert.Equal(t, "contains a comma", issues[1].Reason)
	assert.Contains(t, issues[0].String(), `row 1: "Lemma:"`)

	// The header-looking row is what breaks decoding
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tables))
	_, err := Decode(&buf)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 2, decodeErr.Line)
}

func TestCheck_CleanPack(t *testing.T) {
	assert.Empty(t, Check(PackTables(newTestFragment())))
	assert.Empty(t, Check(EdgeTables(scenarioEdges())))
}

func TestCheck_GroupKey(t *testing.T) {
	issues := Check([]Table{{Key: "a[b", Fields: EdgeFields}})
	require.Len(t, issues, 1)
	assert.Equal(t, 0, issues[0].Row)
	assert.Contains(t, issues[0].String(), "not a usable group key")
}
