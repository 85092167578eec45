// Package loader reads the two input sources: a geometry container
// (shapefile or GeoJSON) and a tabular results source (CSV, local or
// remote). Loaded records are handed to the dataset service untouched:
// region names keep their exact bytes (the shapefile path only strips
// the space padding DBF puts around attribute values), the join
// contract is case-sensitive and whitespace-sensitive.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/pkg/constants"
)

// Geometry loads the sequence of regions from a shapefile (.shp) or a
// GeoJSON feature collection (.geojson/.json), keyed by keyField
// (default ADM2_EN).
func Geometry(ctx context.Context, path, keyField string) ([]domain.Region, error) {
	if keyField == "" {
		keyField = constants.DefaultRegionKeyField
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return shapefileRegions(ctx, path, keyField)
	case ".geojson", ".json":
		return geojsonRegions(ctx, path, keyField)
	default:
		return nil, constants.DataSourceErrorf("unsupported geometry source %q, expected .shp or .geojson", path)
	}
}

func shapefileRegions(_ context.Context, path, keyField string) ([]domain.Region, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, constants.DataSourceErrorf("open shapefile %s: %w", path, err)
	}
	defer r.Close()

	keyIdx := -1
	for i, field := range r.Fields() {
		if field.String() == keyField {
			keyIdx = i
			break
		}
	}
	if keyIdx < 0 {
		return nil, constants.SchemaErrorf("region name field %q not found in %s", keyField, path)
	}

	var regions []domain.Region
	for r.Next() {
		row, shape := r.Shape()
		geom, err := shapeGeometry(shape)
		if err != nil {
			return nil, err
		}
		// DBF stores fixed-width, space-padded attributes
		regions = append(regions, domain.Region{
			Name:     strings.TrimSpace(r.ReadAttribute(row, keyIdx)),
			Geometry: geom,
		})
	}
	if err := r.Err(); err != nil {
		return nil, constants.DataSourceErrorf("read shapefile %s: %w", path, err)
	}

	return regions, nil
}

func shapeGeometry(shape shp.Shape) (orb.Geometry, error) {
	switch s := shape.(type) {
	case *shp.Polygon:
		return polygonGeometry(s.Parts, s.Points), nil
	case *shp.PolygonZ:
		return polygonGeometry(s.Parts, s.Points), nil
	default:
		return nil, constants.DataSourceErrorf("geometry record is %T, expected polygon", shape)
	}
}

// polygonGeometry rebuilds the shapefile part offsets into rings. Ring
// nesting is not reconstructed; the regions are opaque display shapes.
func polygonGeometry(parts []int32, points []shp.Point) orb.Geometry {
	offsets := append(append([]int32{}, parts...), int32(len(points)))

	var poly orb.Polygon
	for i := 0; i+1 < len(offsets); i++ {
		ring := make(orb.Ring, 0, offsets[i+1]-offsets[i])
		for _, pt := range points[offsets[i]:offsets[i+1]] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		poly = append(poly, ring)
	}
	return poly
}

func geojsonRegions(_ context.Context, path, keyField string) ([]domain.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, constants.DataSourceErrorf("read geometry source %s: %w", path, err)
	}

	fc := geojson.NewFeatureCollection()
	if err := sonic.Unmarshal(data, fc); err != nil {
		return nil, constants.DataSourceErrorf("decode geojson %s: %w", path, err)
	}

	regions := make([]domain.Region, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, constants.DataSourceErrorf("feature %d in %s has no geometry", i, path)
		}
		name, ok := f.Properties[keyField]
		if !ok {
			return nil, constants.SchemaErrorf("region name field %q not found in feature %d of %s", keyField, i, path)
		}
		nameStr, ok := name.(string)
		if !ok {
			return nil, constants.DataFormatErrorf("region name field %q in feature %d of %s is %T, expected string", keyField, i, path, name)
		}
		regions = append(regions, domain.Region{Name: nameStr, Geometry: f.Geometry})
	}

	return regions, nil
}
