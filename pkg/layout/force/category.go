package force

// Category is the semantic tag of a node. It only matters to the engine
// through the node's rendered size.
type Category string

const (
	CategoryCore              Category = "core"
	CategoryHubEntity         Category = "hub-entity"
	CategoryRule              Category = "rule"
	CategoryTimedEntity       Category = "timed-entity"
	CategoryLightweightEntity Category = "lightweight-entity"
	CategoryPattern           Category = "pattern"
	CategoryDefault           Category = "default"
)

// defaultDiameter applies to CategoryDefault and to any unknown category.
const defaultDiameter = 40

// diameters holds the rendered circle diameter per category in pixels.
var diameters = map[Category]float64{
	CategoryCore:              60,
	CategoryHubEntity:         48,
	CategoryRule:              44,
	CategoryTimedEntity:       40,
	CategoryLightweightEntity: 36,
	CategoryPattern:           40,
	CategoryDefault:           defaultDiameter,
}

// Diameter returns the rendered diameter of nodes in c. Unknown categories
// never fail the lookup.
func (c Category) Diameter() float64 {
	if d, ok := diameters[c]; ok {
		return d
	}
	return defaultDiameter
}

// Radius returns half of Diameter.
func (c Category) Radius() float64 { return c.Diameter() / 2 }

// Known reports whether c is one of the predefined categories.
func (c Category) Known() bool {
	_, ok := diameters[c]
	return ok
}

// Categories lists the predefined categories.
func Categories() []Category {
	return []Category{
		CategoryCore,
		CategoryHubEntity,
		CategoryRule,
		CategoryTimedEntity,
		CategoryLightweightEntity,
		CategoryPattern,
		CategoryDefault,
	}
}
