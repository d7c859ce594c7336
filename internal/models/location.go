package models

// SavedLocation is one resolved place kept in the recent-locations cache.
type SavedLocation struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlacePrediction is one autocomplete suggestion from the place-search
// capability.
type PlacePrediction struct {
	PlaceID  string `json:"placeId"`
	Label    string `json:"label"`
	Sublabel string `json:"sublabel,omitempty"`
}
