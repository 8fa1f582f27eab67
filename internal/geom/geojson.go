package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/paulmach/orb/geojson"
)

// ParseGeoJSON accepts a FeatureCollection, a single Feature or a bare
// geometry. Features that are not Polygon or MultiPolygon are skipped.
func ParseGeoJSON(data []byte) ([]*Shape, []string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, nil, fmt.Errorf("geom: geojson: %w", err)
	}
	var features []*geojson.Feature
	switch head.Type {
	case "":
		return nil, nil, errors.New("geom: geojson: missing type")
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, nil, fmt.Errorf("geom: geojson: %w", err)
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, nil, fmt.Errorf("geom: geojson: %w", err)
		}
		features = []*geojson.Feature{f}
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, nil, fmt.Errorf("geom: geojson: %w", err)
		}
		features = []*geojson.Feature{geojson.NewFeature(g.Geometry())}
	}

	var shapes []*Shape
	var fields []string
	seen := map[string]bool{}
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		props := propsToAttributes(f.Properties)
		s, ok := NewShape(f.Geometry, props)
		if !ok {
			continue
		}
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				fields = append(fields, k)
			}
		}
		shapes = append(shapes, s)
	}
	if len(shapes) == 0 {
		return nil, nil, errors.New("geom: geojson: no polygon geometries found")
	}
	return shapes, fields, nil
}

func propsToAttributes(p geojson.Properties) Attributes {
	attrs := make(Attributes, len(p))
	for k, v := range p {
		attrs[k] = attrValue(v)
	}
	return attrs
}

// attrValue renders a decoded JSON value the way it is shown to users.
func attrValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{}
	case string:
		return StringValue(t)
	case float64:
		return StringValue(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		return StringValue(strconv.FormatBool(t))
	default:
		bs, err := json.Marshal(t)
		if err != nil {
			return Value{}
		}
		return StringValue(string(bs))
	}
}
