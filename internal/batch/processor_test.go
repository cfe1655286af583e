package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseBatch(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Entry
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "inputs only",
			fileContent: `README.md
docs/guide.md`,
			want: []Entry{
				{Input: "README.md"},
				{Input: "docs/guide.md"},
			},
		},
		{
			name: "mixed format",
			fileContent: `README.md = README.ja.md
docs/guide.md
docs/api.md=out/api.md`,
			want: []Entry{
				{Input: "README.md", Output: "README.ja.md"},
				{Input: "docs/guide.md"},
				{Input: "docs/api.md", Output: "out/api.md"},
			},
		},
		{
			name: "comments and blank lines",
			fileContent: `
# translate these first
README.md

  CHANGELOG.md  
`,
			want: []Entry{
				{Input: "README.md"},
				{Input: "CHANGELOG.md"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "a.md\r\nb.md = c.md\r\n",
			want: []Entry{
				{Input: "a.md"},
				{Input: "b.md", Output: "c.md"},
			},
		},
		{
			name:        "missing input ignored",
			fileContent: "= out.md\nreal.md",
			want: []Entry{
				{Input: "real.md"},
			},
		},
		{
			name:        "empty output derives later",
			fileContent: "a.md =",
			want: []Entry{
				{Input: "a.md", Output: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBatch(tt.fileContent)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseBatch() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.txt")
	if err := os.WriteFile(path, []byte("one.md\ntwo.md = 2.md\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadBatchFile(path)
	if err != nil {
		t.Fatalf("ReadBatchFile() error = %v", err)
	}
	want := []Entry{{Input: "one.md"}, {Input: "two.md", Output: "2.md"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestReadBatchFileMissing(t *testing.T) {
	if _, err := ReadBatchFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
