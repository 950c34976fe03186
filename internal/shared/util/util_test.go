// # internal/shared/util/util_test.go
package util

import (
	"testing"

	"github.com/spf13/afero"
)

func TestNormalizePatternPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Dot", input: ".", expected: ""},
		{name: "Trim", input: "  ./src/lib.rs  ", expected: "src/lib.rs"},
		{name: "Relative", input: "src/../main.rs", expected: "main.rs"},
		{name: "Windows", input: `src\bin\a.rs`, expected: "src/bin/a.rs"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizePatternPath(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSortedStringKeys(t *testing.T) {
	t.Parallel()

	m := map[string]int{"b": 2, "a": 1, "c": 3}
	keys := SortedStringKeys(m)
	expected := []string{"a", "b", "c"}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i, key := range expected {
		if keys[i] != key {
			t.Fatalf("expected %q at %d, got %q", key, i, keys[i])
		}
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	path := "/out/nested/result.json"
	content := []byte("hello")

	if err := WriteFileWithDirs(fs, path, content, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("expected %q, got %q", string(content), string(got))
	}
}

func TestOpenAppend(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	path := "/state/relight.log"
	for _, line := range []string{"one\n", "two\n"} {
		f, err := OpenAppend(fs, path)
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		if _, err := f.WriteString(line); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		f.Close()
	}

	got, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != "one\ntwo\n" {
		t.Fatalf("expected appended content, got %q", string(got))
	}
}

var heapSink []byte

func TestHeapAllocMB(t *testing.T) {
	heapSink = make([]byte, 4<<20)
	if HeapAllocMB() == 0 {
		t.Error("expected a non-zero heap after allocating")
	}
	heapSink = nil
}
