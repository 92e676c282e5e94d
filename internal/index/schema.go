package index

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Field names of the page document.
const (
	FieldTitle = "title"
	FieldPath  = "path"
	FieldPage  = "page"
	FieldBody  = "body"
)

// docType is the bleve type-field value every page document carries. bleve
// dispatches field mappings by this value.
const docType = "page"

// Schema is a single immutable value built once per process invocation. It
// is cloneable (a plain value type) so it can be embedded in both the
// Writing and Reading state variants without the two ever sharing mutable
// state.
type Schema struct {
	mapping mapping.IndexMapping
}

// NewSchema builds the page document Schema: title and body are
// indexed+tokenised, path is indexed+stored but not tokenised (keyword
// analyzer), and page is stored only.
func NewSchema() Schema {
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName

	// body is indexed and positioned (so search locations work; the
	// page-word index is built separately from the page text) but never stored: its only durable copy is the page
	// text file in the Page Store, which GetPreview reads from disk.
	bodyField := bleve.NewTextFieldMapping()
	bodyField.Analyzer = en.AnalyzerName
	bodyField.Store = false

	// path is indexed but not tokenised — it is a retrieval key, not a
	// queryable default field, so it keeps its slashes and case intact via
	// the keyword analyzer.
	pathField := bleve.NewTextFieldMapping()
	pathField.Analyzer = keyword.Name
	// Excluded from "_all" so unqualified query terms only ever match
	// title/body.
	pathField.IncludeInAll = false

	pageNumber := bleve.NewNumericFieldMapping()
	pageNumber.Index = false
	pageNumber.Store = true

	pageDoc := bleve.NewDocumentMapping()
	pageDoc.AddFieldMappingsAt(FieldTitle, titleField)
	pageDoc.AddFieldMappingsAt(FieldPath, pathField)
	pageDoc.AddFieldMappingsAt(FieldPage, pageNumber)
	pageDoc.AddFieldMappingsAt(FieldBody, bodyField)

	im := bleve.NewIndexMapping()
	im.AddDocumentMapping(docType, pageDoc)
	im.TypeField = "_type"
	im.DefaultMapping.Enabled = false
	im.DefaultAnalyzer = en.AnalyzerName
	return Schema{mapping: im}
}

// Mapping returns the bleve IndexMapping backing this Schema.
func (s Schema) Mapping() mapping.IndexMapping {
	return s.mapping
}

// DefaultFields is the field list queries are parsed against: {title,
// body}. path and page are retrieval-only.
func (s Schema) DefaultFields() []string {
	return []string{FieldTitle, FieldBody}
}

// PageDocument is the four-field record indexed for one page. title is the
// path of the source document relative to the documents root; path is the
// absolute path of the page text file; page is the 1-based page number;
// body is the full page text.
type PageDocument struct {
	Type  string `json:"_type"`
	Title string `json:"title"`
	Path  string `json:"path"`
	Page  uint64 `json:"page"`
	Body  string `json:"body"`
}

// NewPageDocument builds the page document bleve will index for one page.
func NewPageDocument(title, path string, page uint64, body string) PageDocument {
	return PageDocument{Type: docType, Title: title, Path: path, Page: page, Body: body}
}
