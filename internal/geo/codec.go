// Package geo converts report location payloads to and from coordinates.
//
// Payloads are stored as text and come in four shapes: a flat {"lat","lng"}
// object (the canonical write format), a GeoJSON Point, a GeoJSON LineString,
// and a GeoJSON FeatureCollection wrapping one of the two geometries.
// Decoding is best effort: anything that cannot be read yields a
// *DecodeError and never a panic.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNoLocation is matched by every decode failure.
var ErrNoLocation = errors.New("no location")

// Point is a WGS 84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies within latitude and longitude bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Shape identifies which payload layout a location was read from.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	ShapeFlatLatLng
	ShapePoint
	ShapeLineString
	ShapeFeatureCollection
)

func (s Shape) String() string {
	switch s {
	case ShapeFlatLatLng:
		return "flat"
	case ShapePoint:
		return "Point"
	case ShapeLineString:
		return "LineString"
	case ShapeFeatureCollection:
		return "FeatureCollection"
	default:
		return "unrecognized"
	}
}

// Location is a decoded payload. Secondary is set only for line strings with
// at least two coordinates.
type Location struct {
	Shape     Shape
	Wrapped   bool
	Primary   Point
	Secondary *Point
}

// DecodeError describes why a payload produced no location.
type DecodeError struct {
	Shape  Shape
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode location (%s): %s", e.Shape, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrNoLocation }

// Encode returns the canonical {"lat":..,"lng":..} payload.
func Encode(lat, lng float64) (string, error) {
	if !finite(lat) || !finite(lng) {
		return "", fmt.Errorf("encode location: non-finite coordinate (%v, %v)", lat, lng)
	}
	b, err := json.Marshal(Point{Lat: lat, Lng: lng})
	if err != nil {
		return "", fmt.Errorf("encode location: %w", err)
	}
	return string(b), nil
}

// DecodeNullable is Decode for nullable columns; nil decodes like "".
func DecodeNullable(payload *string) (Location, error) {
	if payload == nil {
		return Location{}, &DecodeError{Reason: "payload is null"}
	}
	return Decode(*payload)
}

// Decode extracts a location from any of the supported payload shapes.
// The flat lat/lng form takes precedence over the GeoJSON type discriminator.
func Decode(payload string) (Location, error) {
	text := strings.TrimSpace(payload)
	if text == "" {
		return Location{}, &DecodeError{Reason: "payload is empty"}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return Location{}, &DecodeError{Reason: "malformed json: " + err.Error()}
	}
	if obj == nil {
		return Location{}, &DecodeError{Reason: "payload is not an object"}
	}

	switch shape := Classify(obj); shape {
	case ShapeFlatLatLng:
		p, _ := flatPoint(obj)
		return Location{Shape: shape, Primary: p}, nil
	case ShapeFeatureCollection:
		geometry, err := firstGeometry(obj)
		if err != nil {
			return Location{}, err
		}
		loc, err := decodeGeometry(geometry)
		if err != nil {
			return Location{}, err
		}
		loc.Wrapped = true
		return loc, nil
	case ShapePoint, ShapeLineString:
		return decodeGeometry(obj)
	default:
		return Location{}, &DecodeError{Reason: "unrecognized payload shape"}
	}
}

// Classify picks the payload shape of a JSON object without extracting
// coordinates beyond what the flat form needs to be recognised.
func Classify(obj map[string]json.RawMessage) Shape {
	if _, ok := flatPoint(obj); ok {
		return ShapeFlatLatLng
	}
	switch typeOf(obj) {
	case "FeatureCollection":
		return ShapeFeatureCollection
	case "Point":
		return ShapePoint
	case "LineString":
		return ShapeLineString
	default:
		return ShapeUnrecognized
	}
}

func decodeGeometry(obj map[string]json.RawMessage) (Location, error) {
	switch typeOf(obj) {
	case "Point":
		coords, ok := rawArray(obj["coordinates"])
		if !ok {
			return Location{}, &DecodeError{Shape: ShapePoint, Reason: "coordinates is not an array"}
		}
		p, ok := pairFrom(coords)
		if !ok {
			return Location{}, &DecodeError{Shape: ShapePoint, Reason: "coordinates need two numbers"}
		}
		return Location{Shape: ShapePoint, Primary: p}, nil
	case "LineString":
		coords, ok := rawArray(obj["coordinates"])
		if !ok || len(coords) == 0 {
			return Location{}, &DecodeError{Shape: ShapeLineString, Reason: "coordinates is empty"}
		}
		first, ok := rawArray(coords[0])
		if !ok {
			return Location{}, &DecodeError{Shape: ShapeLineString, Reason: "first coordinate is not an array"}
		}
		start, ok := pairFrom(first)
		if !ok {
			return Location{}, &DecodeError{Shape: ShapeLineString, Reason: "first coordinate needs two numbers"}
		}
		loc := Location{Shape: ShapeLineString, Primary: start}
		if len(coords) > 1 {
			if second, ok := rawArray(coords[1]); ok {
				if end, ok := pairFrom(second); ok {
					loc.Secondary = &end
				}
			}
		}
		return loc, nil
	default:
		return Location{}, &DecodeError{Shape: ShapeFeatureCollection, Reason: "geometry is not a Point or LineString"}
	}
}

func firstGeometry(obj map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	features, ok := rawArray(obj["features"])
	if !ok || len(features) == 0 {
		return nil, &DecodeError{Shape: ShapeFeatureCollection, Reason: "no features"}
	}
	var feature map[string]json.RawMessage
	if err := json.Unmarshal(features[0], &feature); err != nil || feature == nil {
		return nil, &DecodeError{Shape: ShapeFeatureCollection, Reason: "first feature is not an object"}
	}
	var geometry map[string]json.RawMessage
	if err := json.Unmarshal(feature["geometry"], &geometry); err != nil || geometry == nil {
		return nil, &DecodeError{Shape: ShapeFeatureCollection, Reason: "first feature has no geometry"}
	}
	return geometry, nil
}

// flatPoint reads numeric or numeric-string lat and lng fields.
func flatPoint(obj map[string]json.RawMessage) (Point, bool) {
	rawLat, okLat := obj["lat"]
	rawLng, okLng := obj["lng"]
	if !okLat || !okLng {
		return Point{}, false
	}
	lat, ok := looseNumber(rawLat)
	if !ok {
		return Point{}, false
	}
	lng, ok := looseNumber(rawLng)
	if !ok {
		return Point{}, false
	}
	return Point{Lat: lat, Lng: lng}, true
}

// pairFrom reads a GeoJSON [lng, lat] position; extra members are ignored.
func pairFrom(coords []json.RawMessage) (Point, bool) {
	if len(coords) < 2 {
		return Point{}, false
	}
	lng, ok := strictNumber(coords[0])
	if !ok {
		return Point{}, false
	}
	lat, ok := strictNumber(coords[1])
	if !ok {
		return Point{}, false
	}
	return Point{Lat: lat, Lng: lng}, true
}

func typeOf(obj map[string]json.RawMessage) string {
	var t string
	if err := json.Unmarshal(obj["type"], &t); err != nil {
		return ""
	}
	return t
}

func rawArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil || arr == nil {
		return nil, false
	}
	return arr, true
}

func strictNumber(raw json.RawMessage) (float64, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func looseNumber(raw json.RawMessage) (float64, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		// Plain decimal only: ParseFloat would also take hex floats and
		// digit separators.
		s := strings.TrimSpace(t)
		if strings.ContainsAny(s, "xX_") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
