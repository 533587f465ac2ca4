package registry

// DocumentMeta describes one maintenance manual known ahead of time.
// The registry is a fixed table; documents are never discovered at runtime.
type DocumentMeta struct {
	Filename     string `json:"filename"`
	DocumentID   string `json:"document_id"`
	AircraftType string `json:"aircraft_type"`
	Title        string `json:"title"`
}

// DocumentType is the type tag stored on every Document node.
const DocumentType = "maintenance_manual"

var documents = []DocumentMeta{
	{
		Filename:     "MAINTENANCE_A320.md",
		DocumentID:   "AMM-A320-2024-001",
		AircraftType: "A320-200",
		Title:        "A320-200 Maintenance and Troubleshooting Manual",
	},
	{
		Filename:     "MAINTENANCE_A321neo.md",
		DocumentID:   "AMM-A321neo-2024-001",
		AircraftType: "A321neo",
		Title:        "A321neo Maintenance and Troubleshooting Manual",
	},
	{
		Filename:     "MAINTENANCE_B737.md",
		DocumentID:   "AMM-B737-2024-001",
		AircraftType: "B737-800",
		Title:        "B737-800 Maintenance and Troubleshooting Manual",
	},
}

// Documents returns the registry in processing order.
func Documents() []DocumentMeta {
	out := make([]DocumentMeta, len(documents))
	copy(out, documents)
	return out
}
