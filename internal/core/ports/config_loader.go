package ports

import "go.trai.ch/sqip/internal/core/domain"

// ConfigLoader defines the interface for loading the runtime configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads sqip.yaml from cwd when present and applies environment overrides.
	Load(cwd string) (*domain.Config, error)
}
