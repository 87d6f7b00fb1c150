package domain

// Provider is a configured external exchange rate source. Providers are
// tried in priority order (lower first, ties broken by name) by the
// resolver; disabled providers are skipped entirely.
type Provider struct {
	ProviderID string            `json:"providerID"` // Primary Key (UUID)
	Name       string            `json:"name"`       // Unique, admin-facing
	AdapterKey string            `json:"adapterKey"` // Maps to a registered ratesource adapter
	Priority   int               `json:"priority"`   // Lower = tried first
	Enabled    bool              `json:"enabled"`
	Config     map[string]string `json:"config"` // Opaque adapter configuration (API key, base URL, ...)
	AuditFields
}
