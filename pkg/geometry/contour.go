package geometry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Object is one validated input contour: its class label, its polygon and
// the polygon's centroid. Index is the object's position within its class's
// contour list.
type Object struct {
	Class    string
	Index    int
	Polygon  Polygon
	Centroid r2.Vec
}

// ValidObjects validates every contour of byClass and returns the
// surviving objects in deterministic encounter order: classes sorted by
// name, contours in input order within each class. Contours with fewer
// than 4 points or that fail to form a valid non-zero-area simple polygon
// are skipped with a warning; they contribute no object and no identifier
// downstream.
func ValidObjects(byClass map[string][]Contour, logger *slog.Logger) []Object {
	if logger == nil {
		logger = slog.Default()
	}
	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	var objects []Object
	for _, class := range classes {
		for i, c := range byClass[class] {
			p, err := FromContour(c)
			if err != nil {
				logger.Warn("skipping invalid contour",
					"class", class, "index", i, "points", len(c), "reason", err)
				continue
			}
			objects = append(objects, Object{
				Class:    class,
				Index:    i,
				Polygon:  p,
				Centroid: p.Centroid(),
			})
		}
	}
	return objects
}
