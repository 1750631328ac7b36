package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Entry
		wantErr     bool
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
			name: "plain texts",
			fileContent: `Hello world.
How are you?`,
			want: []Entry{
				{Line: 1, Text: "Hello world."},
				{Line: 2, Text: "How are you?"},
			},
		},
		{
			name: "workflow prefixes",
			fileContent: `pos: How are you?
Keywords: Rain rain go away
analyze:I am happy.
translate : Thank you very much.`,
			want: []Entry{
				{Line: 1, Text: "How are you?", Workflow: WorkflowPOS},
				{Line: 2, Text: "Rain rain go away", Workflow: WorkflowKeywords},
				{Line: 3, Text: "I am happy.", Workflow: WorkflowAnalyze},
				{Line: 4, Text: "Thank you very much.", Workflow: WorkflowTranslate},
			},
		},
		{
			name:        "colon inside text",
			fileContent: `Note: bring an umbrella`,
			want: []Entry{
				{Line: 1, Text: "Note: bring an umbrella"},
			},
		},
		{
			name: "comments, empty lines and empty workflow text",
			fileContent: `
# greetings
Hello world.

pos:   

  How are you?  
`,
			want: []Entry{
				{Line: 3, Text: "Hello world."},
				{Line: 7, Text: "How are you?"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "Hello world.\r\npos: How are you?\r\nThank you very much.",
			want: []Entry{
				{Line: 1, Text: "Hello world."},
				{Line: 2, Text: "How are you?", Workflow: WorkflowPOS},
				{Line: 3, Text: "Thank you very much."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp file
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "test.txt")
			err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644)
			if err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadBatchFile(tmpFile)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadBatchFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_FileNotFound(t *testing.T) {
	_, err := ReadBatchFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "unix line endings",
			input: "line1\nline2\nline3",
			want:  []string{"line1", "line2", "line3"},
		},
		{
			name:  "windows line endings",
			input: "line1\r\nline2\r\nline3",
			want:  []string{"line1", "line2", "line3"},
		},
		{
			name:  "empty lines kept",
			input: "line1\n\nline3",
			want:  []string{"line1", "", "line3"},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "trailing newline",
			input: "line1\nline2\n",
			want:  []string{"line1", "line2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitLines(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrimSpace(t *testing.T) {
	tests := map[string]string{
		"  hello  ":     "hello",
		"\t\r\nhello\n": "hello",
		"":              "",
		"hello world":   "hello world",
	}
	for in, want := range tests {
		if got := trimSpace(in); got != want {
			t.Errorf("trimSpace(%q) = %q, want %q", in, got, want)
		}
	}
}
