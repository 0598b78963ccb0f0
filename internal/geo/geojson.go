package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature (Point, LineString or Polygon).
// Coordinates nest according to Type and always use [Lon, Lat] order.
type GeoJSONGeometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates interface{} `json:"coordinates" yaml:"coordinates"`
}

// NewFeatureCollection wraps features into a FeatureCollection.
func NewFeatureCollection(features ...GeoJSONFeature) GeoJSONFeatureCollection {
	if features == nil {
		features = []GeoJSONFeature{}
	}
	return GeoJSONFeatureCollection{Type: "FeatureCollection", Features: features}
}

// PointFeature builds a Point feature.
func PointFeature(p Point, props map[string]interface{}) GeoJSONFeature {
	return newFeature("Point", lonLat(p), props)
}

// LineStringFeature builds a LineString feature from an ordered track.
func LineStringFeature(track []Point, props map[string]interface{}) GeoJSONFeature {
	return newFeature("LineString", lonLats(track), props)
}

// PolygonFeature builds a Polygon feature; the ring is closed as GeoJSON requires.
func PolygonFeature(ring Polygon, props map[string]interface{}) GeoJSONFeature {
	return newFeature("Polygon", [][][]float64{lonLats(ring.Closed())}, props)
}

func newFeature(kind string, coords interface{}, props map[string]interface{}) GeoJSONFeature {
	if props == nil {
		props = map[string]interface{}{}
	}
	return GeoJSONFeature{
		Type:       "Feature",
		Geometry:   GeoJSONGeometry{Type: kind, Coordinates: coords},
		Properties: props,
	}
}

func lonLat(p Point) []float64 {
	return []float64{p.Lon, p.Lat}
}

func lonLats(points []Point) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = lonLat(p)
	}
	return out
}
