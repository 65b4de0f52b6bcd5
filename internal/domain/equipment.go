package domain

type EquipmentCategory string

const (
	CategoryPlayer EquipmentCategory = "player"
	CategoryMixer  EquipmentCategory = "mixer"
	CategoryExtra  EquipmentCategory = "extra"
)

// Equipment is one item of the studio's fixed gear list.
type Equipment struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Category EquipmentCategory `json:"category"`
}

// EquipmentRef is the subset of Equipment a booking carries.
type EquipmentRef struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Category EquipmentCategory `json:"category"`
}

// DJEquipment is the studio's catalog. It is configuration, not data: the
// room has exactly this gear, so it ships with the binary.
var DJEquipment = []Equipment{
	{ID: 1, Name: "Pioneer CDJ-3000", Type: "CDJ Player", Category: CategoryPlayer},
	{ID: 2, Name: "Technics SL-1200 mk7", Type: "Turntable", Category: CategoryPlayer},
	{ID: 3, Name: "Denon SC5000", Type: "Media Player", Category: CategoryPlayer},
	{ID: 4, Name: "DJM A9", Type: "DJ Mixer", Category: CategoryMixer},
	{ID: 5, Name: "DJM V10", Type: "DJ Mixer", Category: CategoryMixer},
	{ID: 6, Name: "Denon X1800", Type: "DJ Mixer", Category: CategoryMixer},
	{ID: 7, Name: "XOne 96", Type: "DJ Mixer", Category: CategoryMixer},
	{ID: 8, Name: "S11", Type: "DJ Mixer", Category: CategoryMixer},
	{ID: 9, Name: "RMX 1000", Type: "Effect", Category: CategoryExtra},
	{ID: 10, Name: "DJS 1000", Type: "Sampler", Category: CategoryExtra},
}

// EquipmentByID looks up a catalog item. Second result is false for unknown ids.
func EquipmentByID(id int64) (Equipment, bool) {
	for _, eq := range DJEquipment {
		if eq.ID == id {
			return eq, true
		}
	}
	return Equipment{}, false
}
