package richtext

import "testing"

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		empty bool
	}{
		{
			name:  "single empty paragraph",
			raw:   `{"root":{"children":[{"type":"paragraph","children":[]}]}}`,
			empty: true,
		},
		{
			name:  "no children at all",
			raw:   `{"root":{"children":[]}}`,
			empty: true,
		},
		{
			name:  "paragraph with text",
			raw:   `{"root":{"children":[{"type":"paragraph","children":[{"type":"text"}]}]}}`,
			empty: false,
		},
		{
			name:  "two empty paragraphs",
			raw:   `{"root":{"children":[{"type":"paragraph","children":[]},{"type":"paragraph","children":[]}]}}`,
			empty: false,
		},
		{
			name:  "single empty heading is not the initial state",
			raw:   `{"root":{"children":[{"type":"heading","children":[]}]}}`,
			empty: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			empty, err := IsEmpty([]byte(tc.raw))
			if err != nil {
				t.Fatalf("IsEmpty: %v", err)
			}
			if empty != tc.empty {
				t.Fatalf("expected empty=%v, got %v", tc.empty, empty)
			}
		})
	}
}

func TestIsEmpty_NilDocument(t *testing.T) {
	empty, err := IsEmpty(nil)
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if !empty {
		t.Fatal("nil document must count as empty")
	}
}

func TestIsEmpty_MalformedDocument(t *testing.T) {
	if _, err := IsEmpty([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
