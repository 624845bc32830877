package protocol

// CatalogEntry is a built-in command offered by the front end: a
// presentation label and the wire payload it sends, in hex.
type CatalogEntry struct {
	Label string
	Hex   string
}

// Catalog lists the built-in commands in presentation order.
var Catalog = []CatalogEntry{
	{Label: "Read Status", Hex: "0100"},
	{Label: "Write Enable", Hex: "06"},
	{Label: "Chip Erase", Hex: "C7"},
}

// CatalogLookup resolves a label to its wire payload.
func CatalogLookup(label string) (string, bool) {
	for _, e := range Catalog {
		if e.Label == label {
			return e.Hex, true
		}
	}
	return "", false
}
