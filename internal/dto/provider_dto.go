package dto

import (
	"time"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
)

// CreateProviderRequest defines the structure for registering a rate provider.
type CreateProviderRequest struct {
	Name       string            `json:"name" binding:"required,max=100"`
	AdapterKey string            `json:"adapterKey" binding:"required,max=50"`
	Priority   int               `json:"priority" binding:"min=0"`
	Enabled    bool              `json:"enabled"`
	Config     map[string]string `json:"config"`
}

// UpdateProviderRequest defines the mutable fields of a provider. Nil fields
// are left unchanged.
type UpdateProviderRequest struct {
	Priority *int              `json:"priority" binding:"omitempty,min=0"`
	Enabled  *bool             `json:"enabled"`
	Config   map[string]string `json:"config"`
}

// ProviderResponse defines the structure for API responses containing
// provider details. Config is omitted: it may carry credentials.
type ProviderResponse struct {
	ProviderID    string    `json:"providerID"`
	Name          string    `json:"name"`
	AdapterKey    string    `json:"adapterKey"`
	Priority      int       `json:"priority"`
	Enabled       bool      `json:"enabled"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToProviderResponse converts a domain.Provider to ProviderResponse DTO
func ToProviderResponse(p *domain.Provider) ProviderResponse {
	return ProviderResponse{
		ProviderID:    p.ProviderID,
		Name:          p.Name,
		AdapterKey:    p.AdapterKey,
		Priority:      p.Priority,
		Enabled:       p.Enabled,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ToListProviderResponse converts a slice of domain.Provider to DTOs.
func ToListProviderResponse(ps []domain.Provider) []ProviderResponse {
	responses := make([]ProviderResponse, len(ps))
	for i := range ps {
		responses[i] = ToProviderResponse(&ps[i])
	}
	return responses
}
