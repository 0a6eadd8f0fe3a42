package model

// WasteType is one entry of the points catalog.
type WasteType struct {
	Name     string `db:"name" json:"name"`
	Points   int    `db:"points" json:"points"`
	Category string `db:"category" json:"category"`
}

// DefaultCatalog mirrors the seed data of the waste_types table and serves
// as the fallback when no catalog database is configured or reachable.
var DefaultCatalog = []WasteType{
	{Name: "Plastic Bottle", Points: 15, Category: "recyclable"},
	{Name: "Aluminum Can", Points: 20, Category: "recyclable"},
	{Name: "Glass Bottle", Points: 25, Category: "recyclable"},
	{Name: "Paper Cup", Points: 10, Category: "recyclable"},
	{Name: "Cardboard", Points: 12, Category: "recyclable"},
	{Name: "Unknown Item", Points: 5, Category: "general"},
}

// DefaultItemPoints is awarded for waste types missing from the catalog.
const DefaultItemPoints = 10

var classToLabel = map[string]string{
	"green-glass": "Glass Bottle",
	"brown-glass": "Glass Bottle",
	"white-glass": "Glass Bottle",
	"plastic":     "Plastic Bottle",
	"metal":       "Aluminum Can",
	"paper":       "Paper Cup",
	"cardboard":   "Cardboard",
}

// LabelForClass maps a raw classifier class to the catalog label shown to
// users. Unrecognized classes fall back to "Unknown Item".
func LabelForClass(class string) string {
	if label, ok := classToLabel[class]; ok {
		return label
	}
	return "Unknown Item"
}
