package cli

import (
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/frame"
	flowio "github.com/matzehuels/sankeyflow/pkg/io"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "flows.csv", "flows"},
		{"", "data/energy.json", "data/energy"},
		{"", "-", "sankey"},
		{"", "stdin", "sankey"},
		{"out/diagram", "flows.csv", "out/diagram"},
		{"out/diagram.svg", "flows.csv", "out/diagram"},
		{"out/diagram.png", "flows.csv", "out/diagram"},
		{"out/diagram.nodelink.svg", "flows.csv", "out/diagram"},
		{"out/diagram.layout.json", "flows.csv", "out/diagram"},
		{"out/diagram.txt", "flows.csv", "out/diagram.txt"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{"derived", "", "flows.csv", []string{"svg", "png"}, map[string]string{"svg": "flows.svg", "png": "flows.png"}},
		{"explicit file", "chart.svg", "flows.csv", []string{"svg"}, map[string]string{"svg": "chart.svg"}},
		{"explicit base", "out/chart", "flows.csv", []string{"svg", "nodelink"}, map[string]string{"svg": "out/chart.svg", "nodelink": "out/chart.nodelink.svg"}},
		{"extension stripped for many", "chart.svg", "flows.csv", []string{"svg", "pdf"}, map[string]string{"svg": "chart.svg", "pdf": "chart.pdf"}},
		{"input collision", "", "flows.json", []string{"json"}, map[string]string{"json": "flows.sankey.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.input, tt.formats)
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("%s: got %q, want %q", f, got[f], want)
				}
			}
		})
	}
}

func TestOutputDataFormat(t *testing.T) {
	tests := []struct {
		flag, output string
		want         flowio.Format
		wantErr      bool
	}{
		{"", "", flowio.FormatJSON, false},
		{"csv", "", flowio.FormatCSV, false},
		{"", "flows.tsv", flowio.FormatTSV, false},
		{"json", "flows.tsv", flowio.FormatJSON, false},
		{"", "flows.txt", flowio.FormatJSON, false},
		{"xml", "", "", true},
	}
	for _, tt := range tests {
		got, err := outputDataFormat(tt.flag, tt.output)
		if (err != nil) != tt.wantErr {
			t.Errorf("outputDataFormat(%q, %q) error = %v", tt.flag, tt.output, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("outputDataFormat(%q, %q) = %q, want %q", tt.flag, tt.output, got, tt.want)
		}
	}
}

func TestParseFrame(t *testing.T) {
	tests := []struct {
		in      string
		want    frame.Target
		wantErr bool
	}{
		{"400x300", frame.Target{Width: 400, Height: 300}, false},
		{"400X300+20+10", frame.Target{Width: 400, Height: 300, X: 20, Y: 10}, false},
		{" 250.5x100-5+0 ", frame.Target{Width: 250.5, Height: 100, X: -5}, false},
		{"400", frame.Target{}, true},
		{"0x300", frame.Target{}, true},
		{"400x300+20", frame.Target{}, true},
		{"axb", frame.Target{}, true},
	}
	for _, tt := range tests {
		got, err := parseFrame(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFrame(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseFrame(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
