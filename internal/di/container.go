// Package di provides dependency injection configuration for the
// circulation core.
package di

import (
	"github.com/samber/do/v2"

	"github.com/NYPL-Simplified/circulation-core/internal/classification"
	"github.com/NYPL-Simplified/circulation-core/internal/config"
	"github.com/NYPL-Simplified/circulation-core/internal/di/providers"
	"github.com/NYPL-Simplified/circulation-core/internal/logger"
	"github.com/NYPL-Simplified/circulation-core/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCoverage)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Classification and resolution services
	do.Provide(injector, providers.ProvideRegistry)
	do.Provide(injector, providers.ProvideSubjectService)
	do.Provide(injector, providers.ProvideWorkService)

	// Workers
	do.Provide(injector, providers.ProvideBatchRunner)

	return injector
}

// Bootstrap initializes all services and returns once everything is wired.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.CoverageHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*classification.Registry](injector)
	_ = do.MustInvoke[*service.SubjectService](injector)
	_ = do.MustInvoke[*service.WorkService](injector)
	_ = do.MustInvoke[*providers.BatchRunnerHandle](injector)

	// Rebuild the projection if the index was wiped by a version bump.
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
