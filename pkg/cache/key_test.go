package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "path without query",
			key:  Key{Path: "/uniprotkb/P12345.json"},
			want: "uniprot:uniprotkb/P12345.json",
		},
		{
			name: "search with query params (sorted)",
			key: Key{
				Path: "/uniprotkb/search",
				Query: url.Values{
					"size":   []string{"25"},
					"query":  []string{"insulin"},
					"format": []string{"json"},
				},
			},
			want: "uniprot:uniprotkb/search:format=json:query=insulin:size=25",
		},
		{
			name: "cursor param included",
			key: Key{
				Path: "/uniprotkb/search",
				Query: url.Values{
					"cursor": []string{"1fo3sr2yiq"},
					"query":  []string{"kinase"},
				},
			},
			want: "uniprot:uniprotkb/search:cursor=1fo3sr2yiq:query=kinase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("Key.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewKey(t *testing.T) {
	key := NewKey("https://rest.uniprot.org/uniprotkb/search?query=insulin&size=25")

	if key.Path != "/uniprotkb/search" {
		t.Errorf("Path = %q, want /uniprotkb/search", key.Path)
	}
	if key.Query.Get("query") != "insulin" {
		t.Errorf("query param = %q, want insulin", key.Query.Get("query"))
	}
	if key.Query.Get("size") != "25" {
		t.Errorf("size param = %q, want 25", key.Query.Get("size"))
	}
}

func TestNewKey_DifferentQueriesDiffer(t *testing.T) {
	a := NewKey("https://rest.uniprot.org/uniprotkb/search?query=insulin&format=json")
	b := NewKey("https://rest.uniprot.org/uniprotkb/search?query=insulin&format=tsv")

	if a.String() == b.String() {
		t.Errorf("Keys for different formats should differ, both = %q", a.String())
	}
}

// TestKey_Determinism ensures same input always produces same key
func TestKey_Determinism(t *testing.T) {
	key := NewKey("https://rest.uniprot.org/uniprotkb/search?query=insulin&size=25&fields=accession,gene_names")

	first := key.String()
	for i := 0; i < 10; i++ {
		if got := key.String(); got != first {
			t.Errorf("iteration %d: key = %v, want %v (not deterministic)", i, got, first)
		}
	}
}
