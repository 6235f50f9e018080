package models

// GeoResult is a resolved location. It is produced once by a provider and never modified afterwards.
type GeoResult struct {
	Latitude       float64 `json:"latitude"`          // Latitude of the resolved point.
	Longitude      float64 `json:"longitude"`         // Longitude of the resolved point.
	NormalizedName string  `json:"normalized_name"`   // Provider's display name for the place.
	ProviderID     string  `json:"provider_id"`       // ID of the provider that answered.
	Country        string  `json:"country,omitempty"` // Country, when the provider reports it.
	State          string  `json:"state,omitempty"`   // State or region, when the provider reports it.
	City           string  `json:"city,omitempty"`    // City, town or village, when the provider reports it.
}
