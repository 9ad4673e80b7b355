package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
)

const (
	sampleJSON = `{
  "nodes": [
    {"id": "A", "name": "A"},
    {"id": "B", "name": "B"},
    {"id": "C", "name": "C"}
  ],
  "links": [
    {"source": "A", "target": "B", "value": 10},
    {"source": "A", "target": "C", "value": 5}
  ]
}`
	sampleCSV = "source,target,value\nA,B,10\nA,C,5"
	sampleTSV = "source\ttarget\tvalue\nA\tB\t10\nA\tC\t5\n"
)

func TestFormatsAreEquivalent(t *testing.T) {
	fromJSON, err := Parse([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	fromCSV, err := Parse([]byte(sampleCSV), FormatCSV)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	fromTSV, err := Parse([]byte(sampleTSV), FormatTSV)
	if err != nil {
		t.Fatalf("tsv: %v", err)
	}

	if !flow.Equal(fromJSON, fromCSV) {
		t.Error("JSON and CSV graphs differ")
	}
	if !flow.Equal(fromCSV, fromTSV) {
		t.Error("CSV and TSV graphs differ")
	}
}

func TestReadCSVExample(t *testing.T) {
	g, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	for _, id := range []string{"A", "B", "C"} {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("missing node %s", id)
		}
		if n.Value != 0 {
			t.Errorf("implicit node %s has declared value %v, want 0", id, n.Value)
		}
	}
}

func TestReadCSVVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		edges int
	}{
		{"synonyms", "from,to,weight\nA,B,1\n", 1},
		{"reordered columns", "value,target,source\n3,B,A\n", 1},
		{"upper case header", "Source, Target, Value\nA,B,1\n", 1},
		{"extra columns", "source,target,value,note\nA,B,1,x\nB,C,2,y\n", 2},
		{"blank lines", "source,target,value\n\nA,B,1\n\n", 1},
		{"quoted cells", "source,target,value\n\"A, Inc\",B,1\n", 1},
		{"crlf", "source,target,value\r\nA,B,1\r\n", 1},
		{"bom", "\ufeffsource,target,value\nA,B,1\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadCSV(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadCSV: %v", err)
			}
			if g.EdgeCount() != tt.edges {
				t.Errorf("EdgeCount = %d, want %d", g.EdgeCount(), tt.edges)
			}
		})
	}
}

func TestReadTSVAllowsCommas(t *testing.T) {
	g, err := ReadTSV(strings.NewReader("source\ttarget\tvalue\nAcme, Inc\tBeta, Ltd\t7\n"))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	if !g.HasNode("Acme, Inc") || !g.HasNode("Beta, Ltd") {
		t.Errorf("nodes = %v", flow.NodeIDs(g.Nodes()))
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		code    errors.Code
		message string
	}{
		{"empty csv", FormatCSV, "", errors.ErrCodeParse, "input is empty"},
		{"bad header", FormatCSV, "a,b,c\nA,B,1\n", errors.ErrCodeParse, "header must contain"},
		{"non-numeric csv", FormatCSV, "source,target,value\nA,B,ten\n", errors.ErrCodeParse, `line 2: value "ten" is not a number`},
		{"short row", FormatCSV, "source,target,value\nA,B,10\nA,C\n", errors.ErrCodeParse, "line 3: expected source, target and value, got 2 fields"},
		{"short tsv row", FormatTSV, "source\ttarget\tvalue\nA\tB\n", errors.ErrCodeParse, "line 2: expected source, target and value"},
		{"short for header", FormatCSV, "value,note,target,source\n1,x,B\n", errors.ErrCodeParse, "got 3 fields"},
		{"nan value", FormatCSV, "source,target,value\nA,B,NaN\n", errors.ErrCodeParse, `line 2: value "NaN" is not a number`},
		{"inf value", FormatTSV, "source\ttarget\tvalue\nA\tB\t+Inf\n", errors.ErrCodeParse, "is not a number"},
		{"header only", FormatCSV, "source,target,value\n", errors.ErrCodeValidation, "nodes must not be empty"},
		{"csv negative", FormatCSV, "source,target,value\nA,B,-3\n", errors.ErrCodeValidation, "must be positive"},
		{"csv self loop", FormatCSV, "source,target,value\nA,A,1\n", errors.ErrCodeValidation, "self-loop"},
		{"empty json", FormatJSON, "  ", errors.ErrCodeParse, "input is empty"},
		{"malformed json", FormatJSON, `{"nodes": [`, errors.ErrCodeParse, "invalid JSON"},
		{"nodes not array", FormatJSON, `{"nodes": {}, "links": []}`, errors.ErrCodeParse, `"nodes" must be an array`},
		{"links not array", FormatJSON, `{"nodes": [], "links": 3}`, errors.ErrCodeParse, `"links" must be an array`},
		{"missing nodes", FormatJSON, `{"links": []}`, errors.ErrCodeValidation, `"nodes" array`},
		{"missing links", FormatJSON, `{"nodes": []}`, errors.ErrCodeValidation, `"links" array`},
		{"empty arrays", FormatJSON, `{"nodes": [], "links": []}`, errors.ErrCodeValidation, "nodes must not be empty"},
		{"node without id", FormatJSON, `{"nodes": [{"value": 1}], "links": []}`, errors.ErrCodeValidation, "must have an id or a name"},
		{"duplicate node", FormatJSON, `{"nodes": [{"id": "a"}, {"id": "a"}], "links": []}`, errors.ErrCodeValidation, "duplicate node ID"},
		{"string value", FormatJSON, `{"nodes": [{"id": "a"}, {"id": "b"}], "links": [{"source": "a", "target": "b", "value": "10"}]}`, errors.ErrCodeParse, "value must be a number"},
		{"missing value", FormatJSON, `{"nodes": [{"id": "a"}, {"id": "b"}], "links": [{"source": "a", "target": "b"}]}`, errors.ErrCodeValidation, "missing its value"},
		{"missing target field", FormatJSON, `{"nodes": [{"id": "a"}], "links": [{"source": "a", "value": 1}]}`, errors.ErrCodeValidation, "missing its target"},
		{"dangling target", FormatJSON, `{"nodes": [{"id": "a"}], "links": [{"source": "a", "target": "ghost", "value": 1}]}`, errors.ErrCodeValidation, `target node "ghost" does not exist`},
		{"negative value", FormatJSON, `{"nodes": [{"id": "a"}, {"id": "b"}], "links": [{"source": "a", "target": "b", "value": -3}]}`, errors.ErrCodeValidation, "must be positive"},
		{"unknown format", Format("xml"), "<x/>", errors.ErrCodeInvalidFormat, "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %q, want %q (err: %v)", errors.GetCode(err), tt.code, err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not contain %q", err, tt.message)
			}
		})
	}
}

func TestReadJSONFallbacks(t *testing.T) {
	input := `{
		"nodes": [{"name": "Coal", "value": 100}, {"id": "power"}],
		"edges": [{"source": "Coal", "target": "power", "value": 60}]
	}`
	g, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	coal, ok := g.Node("Coal")
	if !ok {
		t.Fatal("name should be used as id when id is missing")
	}
	if coal.Value != 100 {
		t.Errorf("declared value = %v, want 100", coal.Value)
	}
	power, _ := g.Node("power")
	if power.Name != "power" {
		t.Errorf("Name = %q, want id fallback", power.Name)
	}
}

func TestRoundTrip(t *testing.T) {
	orig, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			data, err := Marshal(orig, f)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			back, err := Parse(data, f)
			if err != nil {
				t.Fatalf("Parse: %v\n%s", err, data)
			}
			if !flow.Equal(orig, back) {
				t.Errorf("round trip through %s changed the graph:\n%s", f, data)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		data     string
		want     Format
	}{
		{"flows.json", "", FormatJSON},
		{"flows.CSV", "", FormatCSV},
		{"flows.tsv", "", FormatTSV},
		{"", sampleJSON, FormatJSON},
		{"", sampleTSV, FormatTSV},
		{"", sampleCSV, FormatCSV},
		{"data.txt", "source\ttarget\tvalue\n", FormatTSV},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.filename, []byte(tt.data)); got != tt.want {
			t.Errorf("DetectFormat(%q, ...) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" TSV "); err != nil || f != FormatTSV {
		t.Errorf("ParseFormat(TSV) = %q, %v", f, err)
	}
	if _, err := ParseFormat("yaml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(yaml) error = %v", err)
	}
}

func TestImportExportFile(t *testing.T) {
	dir := t.TempDir()
	g, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "flows.tsv")
	if err := ExportFile(g, path, FormatTSV); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !bytes.HasPrefix(data, []byte("source\ttarget\tvalue\n")) {
		t.Errorf("unexpected TSV header: %q", data)
	}

	back, format, err := ImportFile(path, "")
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if format != FormatTSV {
		t.Errorf("detected format = %q, want tsv", format)
	}
	if !flow.Equal(g, back) {
		t.Error("imported graph differs")
	}

	if _, _, err := ImportFile(filepath.Join(dir, "missing.csv"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}
