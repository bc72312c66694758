package abac

// ModelVersion is written by Manager.SerializeModel.
const ModelVersion = "1.0.0"

// Metadata accompanies a serialized chart or system.
type Metadata struct {
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
	Description   string `json:"description,omitempty"`
	SystemType    string `json:"systemType,omitempty"`
	SystemName    string `json:"systemName,omitempty"`
	ModelName     string `json:"modelName,omitempty"`
	AircraftModel string `json:"aircraftModel,omitempty"`
}

// Model is the single-chart document: one axes configuration and its curves.
type Model struct {
	Version  string      `json:"version"`
	Axes     *AxesConfig `json:"axes"`
	Curves   []Curve     `json:"curves"`
	Metadata Metadata    `json:"metadata"`
}

// SystemTypes lists the performance chart families a system may declare.
var SystemTypes = []string{
	"takeoff_distance",
	"takeoff_distance_50ft",
	"landing_distance",
	"landing_distance_50ft",
	"accelerate_stop",
	"climb_performance",
	"cruise_performance",
	"fuel_consumption",
	"weight_balance",
	"range_endurance",
	"ceiling_service",
	"glide_performance",
}

// IsSystemType reports whether s is one of SystemTypes.
func IsSystemType(s string) bool {
	for _, t := range SystemTypes {
		if t == s {
			return true
		}
	}
	return false
}
