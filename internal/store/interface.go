// Package store defines the persistence contract the catalog services
// depend on, plus the badger-backed coverage record store.
package store

import (
	"context"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
)

// WorkClassification is one classification vote attached to a work via one
// of its pools' presentation editions, joined with its subject.
type WorkClassification struct {
	Subject    domain.Subject
	Weight     int
	DataSource string
	// FromLicenseSource is true when the classification's data source is
	// the same vendor that licensed the pool.
	FromLicenseSource bool
}

// Tx is the set of operations available inside a transaction. The resolver
// runs its whole find-or-create-or-merge sequence through one Tx so that
// the reads deciding a merge stay consistent with the writes that follow.
type Tx interface {
	CreateSubject(ctx context.Context, subject *domain.Subject) error
	GetSubject(ctx context.Context, id string) (*domain.Subject, error)
	GetSubjectByKey(ctx context.Context, scheme domain.Scheme, identifier string) (*domain.Subject, error)
	UpdateSubject(ctx context.Context, subject *domain.Subject) error

	CreateEdition(ctx context.Context, edition *domain.Edition) error
	GetEdition(ctx context.Context, id string) (*domain.Edition, error)
	UpdateEdition(ctx context.Context, edition *domain.Edition) error

	CreateClassification(ctx context.Context, c *domain.Classification) error
	ListClassificationsForEdition(ctx context.Context, editionID string) ([]*domain.Classification, error)
	ListClassificationsForWork(ctx context.Context, workID string) ([]WorkClassification, error)

	CreatePool(ctx context.Context, pool *domain.LicensePool) error
	GetPool(ctx context.Context, id string) (*domain.LicensePool, error)
	UpdatePool(ctx context.Context, pool *domain.LicensePool) error
	ListPoolsForWork(ctx context.Context, workID string) ([]*domain.LicensePool, error)
	// ListEligibleOpenAccessPools returns the unsuppressed open-access
	// pools whose presentation edition carries the given identity key.
	ListEligibleOpenAccessPools(ctx context.Context, pwid string, medium domain.Medium, language string) ([]*domain.LicensePool, error)

	CreateWork(ctx context.Context, work *domain.Work) error
	GetWork(ctx context.Context, id string) (*domain.Work, error)
	UpdateWork(ctx context.Context, work *domain.Work) error
	DeleteWork(ctx context.Context, id string) error
	FindOpenAccessWork(ctx context.Context, pwid string, medium domain.Medium, language string) (*domain.Work, error)

	SetWorkGenres(ctx context.Context, workID string, genres []domain.WorkGenre) error
	ListWorkGenres(ctx context.Context, workID string) ([]domain.WorkGenre, error)
}

// Store is the full persistence interface. All Tx operations are also
// available directly, running in implicit single-statement transactions.
type Store interface {
	Tx

	ListUncheckedSubjects(ctx context.Context, limit int) ([]*domain.Subject, error)
	ListPoolsWithoutWork(ctx context.Context, limit int) ([]*domain.LicensePool, error)
	ListWorkIDs(ctx context.Context) ([]string, error)

	InTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
