package providers

import (
	"github.com/samber/do/v2"

	"github.com/NYPL-Simplified/circulation-core/internal/classification"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
	"github.com/NYPL-Simplified/circulation-core/internal/logger"
	"github.com/NYPL-Simplified/circulation-core/internal/service"
)

// ProvideRegistry provides the classification engine against the built-in
// genre taxonomy.
func ProvideRegistry(i do.Injector) (*classification.Registry, error) {
	return classification.NewRegistry(genres.Load()), nil
}

// ProvideSubjectService provides the subject classification service.
func ProvideSubjectService(i do.Injector) (*service.SubjectService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	coverageHandle := do.MustInvoke[*CoverageHandle](i)
	registry := do.MustInvoke[*classification.Registry](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSubjectService(storeHandle.Store, coverageHandle.CoverageStore, registry, log.Logger), nil
}

// ProvideWorkService provides the work-identity resolver.
func ProvideWorkService(i do.Injector) (*service.WorkService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	coverageHandle := do.MustInvoke[*CoverageHandle](i)
	registry := do.MustInvoke[*classification.Registry](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewWorkService(storeHandle.Store, coverageHandle.CoverageStore, registry, log.Logger)
	svc.SetIndexer(indexHandle.Index)
	return svc, nil
}
