package providers

import (
	"github.com/samber/do/v2"

	"github.com/NYPL-Simplified/circulation-core/internal/config"
	"github.com/NYPL-Simplified/circulation-core/internal/logger"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
	"github.com/NYPL-Simplified/circulation-core/internal/store/sqlite"
)

// StoreHandle wraps the catalog store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the catalog database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.Storage.DatabasePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog database initialized", "path", cfg.Storage.DatabasePath)

	return &StoreHandle{Store: db}, nil
}

// CoverageHandle wraps the coverage-record store with shutdown capability.
type CoverageHandle struct {
	*store.CoverageStore
}

// Shutdown implements do.Shutdownable.
func (h *CoverageHandle) Shutdown() error {
	return h.Close()
}

// ProvideCoverage provides the coverage-record store.
func ProvideCoverage(i do.Injector) (*CoverageHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	coverage, err := store.OpenCoverage(cfg.Storage.CoveragePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Coverage store initialized", "path", cfg.Storage.CoveragePath)

	return &CoverageHandle{CoverageStore: coverage}, nil
}
