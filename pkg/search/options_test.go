package search

import (
	"testing"
)

func TestOptions_Normalized(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantSize   int
		wantFormat Format
	}{
		{"zero value", Options{}, DefaultSize, FormatJSON},
		{"negative size", Options{Size: -1}, DefaultSize, FormatJSON},
		{"size above maximum", Options{Size: 1200}, MaxBatchSize, FormatJSON},
		{"size at maximum", Options{Size: 500}, 500, FormatJSON},
		{"explicit format kept", Options{Size: 10, Format: FormatTSV}, 10, FormatTSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.normalized()

			if got.Size != tt.wantSize {
				t.Errorf("Size = %d, want %d", got.Size, tt.wantSize)
			}
			if got.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", got.Format, tt.wantFormat)
			}
		})
	}
}

func TestOptions_Values(t *testing.T) {
	opts := Options{
		Size:           50,
		Format:         FormatJSON,
		Fields:         []string{"accession", "gene_names", "organism_name"},
		Cursor:         "1fo3sr2yiq",
		IncludeIsoform: true,
		Compressed:     true,
	}

	v := opts.values("organism_id:9606 AND reviewed:true")

	if got := v.Get("query"); got != "organism_id:9606 AND reviewed:true" {
		t.Errorf("query = %q", got)
	}
	if got := v.Get("size"); got != "50" {
		t.Errorf("size = %q, want 50", got)
	}
	if got := v.Get("fields"); got != "accession,gene_names,organism_name" {
		t.Errorf("fields = %q", got)
	}
	if got := v.Get("cursor"); got != "1fo3sr2yiq" {
		t.Errorf("cursor = %q", got)
	}
	if got := v.Get("includeIsoform"); got != "true" {
		t.Errorf("includeIsoform = %q, want true", got)
	}
	if got := v.Get("compressed"); got != "true" {
		t.Errorf("compressed = %q, want true", got)
	}
}

func TestOptions_ValuesOmitsEmptyParameters(t *testing.T) {
	v := Options{}.values("insulin")

	for _, key := range []string{"fields", "cursor", "includeIsoform", "compressed"} {
		if v.Has(key) {
			t.Errorf("values() carries %q for zero-value options", key)
		}
	}
}

func TestParseBatch(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		records, err := parseBatch([]byte(`{"results":[{"primaryAccession":"P01308"},{"primaryAccession":"P01315"}]}`))
		if err != nil {
			t.Fatalf("parseBatch() error = %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		if records[0]["primaryAccession"] != "P01308" {
			t.Errorf("record 0 = %v", records[0])
		}
	})

	t.Run("missing results key", func(t *testing.T) {
		records, err := parseBatch([]byte(`{"messages":["ok"]}`))
		if err != nil {
			t.Fatalf("parseBatch() error = %v", err)
		}
		if len(records) != 0 {
			t.Errorf("got %d records, want 0", len(records))
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := parseBatch([]byte(`<html>`)); err == nil {
			t.Error("parseBatch() error = nil, want unmarshal error")
		}
	})
}
