package index

import "testing"

func TestSchemaDefaultFields(t *testing.T) {
	s := NewSchema()
	fields := s.DefaultFields()
	if len(fields) != 2 || fields[0] != FieldTitle || fields[1] != FieldBody {
		t.Fatalf("DefaultFields = %v, want [title body]", fields)
	}
}

func TestNewPageDocument(t *testing.T) {
	doc := NewPageDocument("Of Mice and Men", "/litt/pages/abc/1.pageinfo", 1, "A few miles south of Soledad...")
	if doc.Type != docType {
		t.Fatalf("Type = %q, want %q", doc.Type, docType)
	}
	if doc.Title != "Of Mice and Men" {
		t.Fatalf("Title = %q", doc.Title)
	}
	if doc.Page != 1 {
		t.Fatalf("Page = %d, want 1", doc.Page)
	}
}

func TestSchemaMappingNotNil(t *testing.T) {
	s := NewSchema()
	if s.Mapping() == nil {
		t.Fatalf("Mapping() returned nil")
	}
}
