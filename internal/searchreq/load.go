package searchreq

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/querycmp/internal/ir"
	"github.com/roach88/querycmp/internal/query"
)

// Format is a request document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", &DecodeError{
			Path:    path,
			Message: fmt.Sprintf("unsupported file extension %q (expected .json, .yaml, .yml or .cue)", filepath.Ext(path)),
			Err:     ErrFormat,
		}
	}
}

// Document is a decoded request together with its fingerprint.
type Document struct {
	Request *query.SearchRequest

	// Fingerprint identifies the document content independent of encoding
	// and whitespace. Key order is ignored except among aggregations, whose
	// order is significant to comparison.
	Fingerprint string

	Format Format
}

// Decode parses, validates and builds a request document.
func Decode(data []byte, format Format) (*Document, error) {
	var (
		doc any
		err error
	)
	switch format {
	case FormatJSON:
		doc, err = decodeJSON(data)
	case FormatYAML:
		doc, err = decodeYAML(data)
	case FormatCUE:
		doc, err = decodeCUE(data)
	default:
		return nil, &DecodeError{Path: "$", Message: fmt.Sprintf("unsupported format %q", format), Err: ErrFormat}
	}
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, format)
}

// Parse decodes a request document and returns only the request.
func Parse(data []byte, format Format) (*query.SearchRequest, error) {
	d, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return d.Request, nil
}

// LoadFile reads and decodes a request document, choosing the format from
// the file extension.
func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request %s: %w", path, err)
	}
	d, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// FromYAMLNode decodes a request embedded in a larger YAML document.
func FromYAMLNode(n *yaml.Node) (*Document, error) {
	if n == nil {
		return nil, &DecodeError{Path: "$", Message: "missing request", Err: ErrFormat}
	}
	doc, err := fromYAML(n, "$")
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, FormatYAML)
}

func fromDocument(doc any, format Format) (*Document, error) {
	if err := validateSchema(doc); err != nil {
		return nil, err
	}
	req, err := buildRequest(doc)
	if err != nil {
		return nil, err
	}
	fp, err := fingerprint(doc)
	if err != nil {
		return nil, err
	}
	return &Document{Request: req, Fingerprint: fp, Format: format}, nil
}

// fingerprint hashes the canonical JSON of a document. Aggregations are
// hashed as a list of [name, spec] pairs so their order is kept.
func fingerprint(doc any) (string, error) {
	obj, ok := doc.(object)
	if !ok {
		return ir.Fingerprint(ir.DomainRequest, plain(doc))
	}
	m := make(map[string]any, len(obj))
	for _, mem := range obj {
		switch mem.key {
		case "aggs", "aggregations":
			m[mem.key] = orderedPairs(mem.value)
		default:
			m[mem.key] = plain(mem.value)
		}
	}
	return ir.Fingerprint(ir.DomainRequest, m)
}
