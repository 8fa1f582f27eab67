package geom

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Collection is a named set of shapes loaded from one dataset.
type Collection struct {
	Name   string
	Slug   string
	Fields []string
	Shapes []*Shape
}

// Supported reports whether Load understands the file extension of p.
func Supported(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".geojson", ".json", ".wkt", ".csv", ".kml":
		return true
	}
	return false
}

// Load reads a dataset and names the collection after the file.
func Load(p string) (*Collection, error) {
	if !Supported(p) {
		return nil, fmt.Errorf("geom: unsupported file: %s", filepath.Ext(p))
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(filepath.Base(p), f)
}

// Read decodes a dataset from r, picking the format from the extension of
// filename. The collection is named after filename without its extension.
func Read(filename string, r io.Reader) (*Collection, error) {
	var (
		shapes []*Shape
		fields []string
		err    error
	)
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".geojson", ".json":
		var data []byte
		if data, err = io.ReadAll(r); err == nil {
			shapes, fields, err = ParseGeoJSON(data)
		}
	case ".wkt":
		shapes, fields, err = readWKT(r)
	case ".csv":
		shapes, fields, err = readCSV(r)
	case ".kml":
		shapes, fields, err = readKML(r)
	default:
		return nil, fmt.Errorf("geom: unsupported file: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filename), err)
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return &Collection{Name: name, Slug: Slugify(name), Fields: fields, Shapes: shapes}, nil
}

// Slugify lowercases s, drops characters other than letters, digits, spaces,
// hyphens and underscores, and joins the remaining words with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingDash = true
		}
	}
	return b.String()
}
