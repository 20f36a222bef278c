package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/NYPL-Simplified/circulation-core/internal/classification"
	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	domainerrors "github.com/NYPL-Simplified/circulation-core/internal/errors"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
	"github.com/NYPL-Simplified/circulation-core/internal/id"
	"github.com/NYPL-Simplified/circulation-core/internal/search"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

// WorkIndexer pushes resolved works into the search projection. The bleve
// index satisfies it; tests may leave it unset.
type WorkIndexer interface {
	IndexWork(doc *search.WorkDocument) error
	DeleteWork(id string) error
}

// WorkService owns work identity: finding, creating, merging and splitting
// works as license pools and their presentation editions change, plus the
// consolidated reclassification of a work's subjects.
type WorkService struct {
	store    store.Store
	coverage *store.CoverageStore
	registry *classification.Registry
	index    WorkIndexer
	logger   *slog.Logger
}

// NewWorkService creates a new work service.
func NewWorkService(st store.Store, coverage *store.CoverageStore, registry *classification.Registry, logger *slog.Logger) *WorkService {
	return &WorkService{
		store:    st,
		coverage: coverage,
		registry: registry,
		logger:   logger,
	}
}

// SetIndexer wires the search projection. Set after construction so the
// index can be built against the same store.
func (s *WorkService) SetIndexer(index WorkIndexer) {
	s.index = index
}

// identity is the key a pool groups by: derived from its presentation
// edition.
type identity struct {
	pwid     string
	medium   domain.Medium
	language string
}

// resolution collects the side effects of one resolver invocation so the
// search projection and coverage records can be applied after commit.
type resolution struct {
	touched       map[string]bool
	deleted       []string
	coverageMoves [][2]string
	detachReason  string
}

func newResolution() *resolution {
	return &resolution{touched: make(map[string]bool)}
}

func (r *resolution) touch(workID string) {
	if workID != "" {
		r.touched[workID] = true
	}
}

func (r *resolution) drop(workID string) {
	r.deleted = append(r.deleted, workID)
	delete(r.touched, workID)
}

// CalculateWork resolves the work a pool belongs to: computing its
// permanent work identity, finding or creating the right work, merging
// historical duplicates, and splitting inconsistent siblings. The whole
// sequence runs in one transaction.
//
// A pool with no presentation edition or no title is detached and (nil,
// false, nil) is returned; that is a valid terminal state, not an error.
// The second return value reports whether a new work was created.
func (s *WorkService) CalculateWork(ctx context.Context, poolID string) (*domain.Work, bool, error) {
	res := newResolution()

	var (
		work  *domain.Work
		isNew bool
	)
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		pool, err := tx.GetPool(ctx, poolID)
		if err != nil {
			return err
		}
		work, isNew, err = s.resolvePool(ctx, tx, pool, true, res)
		return err
	})
	if err != nil {
		s.recordPoolCoverage(poolID, err)
		return nil, false, err
	}

	if work == nil {
		s.recordPoolCoverage(poolID, errors.New(res.detachReason))
	} else {
		s.recordPoolCoverage(poolID, nil)
	}

	s.project(ctx, res)
	return work, isNew, nil
}

// MergeInto folds the loser work into the winner: pools are moved, the
// loser's coverage records transferred, and the loser row deleted. Merging
// works with different permanent work IDs, or mixing open-access with
// commercial, is an invariant violation and fails without touching either
// work.
func (s *WorkService) MergeInto(ctx context.Context, loserID, winnerID string) error {
	res := newResolution()

	err := s.store.InTx(ctx, func(tx store.Tx) error {
		loser, err := tx.GetWork(ctx, loserID)
		if err != nil {
			return err
		}
		winner, err := tx.GetWork(ctx, winnerID)
		if err != nil {
			return err
		}
		if err := mergeGuard(loser, winner); err != nil {
			return err
		}
		if err := s.mergeWorks(ctx, tx, loser, winner, res); err != nil {
			return err
		}
		return s.refreshWork(ctx, tx, winner, res)
	})
	if err != nil {
		return err
	}

	s.project(ctx, res)
	return nil
}

// MakeExclusiveOpenAccess strips the open-access work for an identity key
// down to pools that genuinely belong: every non-open-access pool, and
// every pool whose edition carries a different identity, is detached and
// re-resolved into its own correct work.
func (s *WorkService) MakeExclusiveOpenAccess(ctx context.Context, pwid string, medium domain.Medium, language string) error {
	res := newResolution()

	err := s.store.InTx(ctx, func(tx store.Tx) error {
		work, err := tx.FindOpenAccessWork(ctx, pwid, medium, language)
		if err != nil {
			return err
		}

		pools, err := tx.ListPoolsForWork(ctx, work.ID)
		if err != nil {
			return err
		}

		var detached []*domain.LicensePool
		for _, pool := range pools {
			_, ident, err := s.poolIdentity(ctx, tx, pool)
			if err != nil {
				return err
			}
			keep := pool.OpenAccess && ident != nil &&
				ident.pwid == pwid && ident.medium == medium && ident.language == language
			if keep {
				continue
			}
			if err := s.detachPool(ctx, tx, pool); err != nil {
				return err
			}
			detached = append(detached, pool)
		}

		for _, pool := range detached {
			if _, _, err := s.resolvePool(ctx, tx, pool, false, res); err != nil {
				return err
			}
		}

		return s.refreshWork(ctx, tx, work, res)
	})
	if err != nil {
		return err
	}

	s.project(ctx, res)
	return nil
}

// Reclassify recomputes a work's consolidated classification from all of
// its pools' classifications, stores the genre affinities, and reindexes
// the work.
func (s *WorkService) Reclassify(ctx context.Context, workID string) error {
	res := newResolution()

	err := s.store.InTx(ctx, func(tx store.Tx) error {
		work, err := tx.GetWork(ctx, workID)
		if err != nil {
			return err
		}

		votes, err := tx.ListClassificationsForWork(ctx, workID)
		if err != nil {
			return err
		}

		wc := classification.NewWorkClassifier(s.registry.Taxonomy())
		for i := range votes {
			vote := &votes[i]
			wasChecked := vote.Subject.Checked
			decision := s.registry.ClassifySubject(&vote.Subject, false)
			if !wasChecked {
				vote.Subject.Touch()
				if err := tx.UpdateSubject(ctx, &vote.Subject); err != nil {
					return err
				}
			}

			cls := domain.Classification{Weight: vote.Weight}
			wc.Add(classification.Input{
				Decision:             decision,
				Weight:               cls.ScaledWeight(vote.Subject.Scheme, vote.FromLicenseSource),
				TargetAgeReliability: domain.TargetAgeReliability(vote.Subject.Scheme),
				FromLicenseSource:    vote.FromLicenseSource,
				DescribesFormat:      vote.Subject.DescribesFormat(),
			})
		}

		// Publisher, imprint and title hints count as metadata votes.
		pools, err := tx.ListPoolsForWork(ctx, workID)
		if err != nil {
			return err
		}
		for _, pool := range pools {
			if pool.PresentationEditionID == "" {
				continue
			}
			ed, err := tx.GetEdition(ctx, pool.PresentationEditionID)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			wc.AddEdition(ed)
		}

		consolidated := wc.Classify()

		fiction := consolidated.Fiction
		work.Fiction = &fiction
		work.Audience = consolidated.Audience
		work.TargetAge = consolidated.TargetAge
		work.PresentationReady = work.Title != ""
		work.Touch()

		if err := tx.SetWorkGenres(ctx, workID, sortedAffinities(workID, consolidated.Genres)); err != nil {
			return err
		}
		if err := tx.UpdateWork(ctx, work); err != nil {
			return err
		}

		res.touch(workID)
		return nil
	})
	if err != nil {
		return err
	}

	s.project(ctx, res)
	return nil
}

// sortedAffinities flattens a consolidated genre map to rows, strongest
// first, names breaking ties.
func sortedAffinities(workID string, affinities map[*genres.Genre]float64) []domain.WorkGenre {
	rows := make([]domain.WorkGenre, 0, len(affinities))
	for g, affinity := range affinities {
		rows = append(rows, domain.WorkGenre{
			WorkID:    workID,
			GenreName: g.Name,
			Affinity:  affinity,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Affinity != rows[j].Affinity {
			return rows[i].Affinity > rows[j].Affinity
		}
		return rows[i].GenreName < rows[j].GenreName
	})
	return rows
}

// resolvePool is steps 1-5 of the resolver for one pool. With repair set,
// siblings in the pool's current work that don't belong with it are split
// off and individually re-resolved first.
func (s *WorkService) resolvePool(ctx context.Context, tx store.Tx, pool *domain.LicensePool, repair bool, res *resolution) (*domain.Work, bool, error) {
	ed, ident, err := s.poolIdentity(ctx, tx, pool)
	if err != nil {
		return nil, false, err
	}
	if ident == nil {
		if repair {
			res.detachReason = "no presentation edition"
			if ed != nil {
				res.detachReason = "no title"
			}
		}
		res.touch(pool.WorkID)
		oldWorkID := pool.WorkID
		if err := s.detachPool(ctx, tx, pool); err != nil {
			return nil, false, err
		}
		if oldWorkID != "" {
			if err := s.refreshWorkByID(ctx, tx, oldWorkID, res); err != nil {
				return nil, false, err
			}
		}
		return nil, false, nil
	}

	if repair && pool.WorkID != "" {
		if err := s.repairWork(ctx, tx, pool, ident, res); err != nil {
			return nil, false, err
		}
	}

	var (
		work  *domain.Work
		isNew bool
	)
	if pool.OpenAccess {
		work, isNew, err = s.assignOpenAccess(ctx, tx, pool, ed, ident, res)
	} else {
		work, isNew, err = s.assignCommercial(ctx, tx, pool, ed, ident)
	}
	if err != nil {
		return nil, false, err
	}

	if err := s.refreshWork(ctx, tx, work, res); err != nil {
		return nil, false, err
	}
	res.touch(work.ID)
	return work, isNew, nil
}

// poolIdentity resolves the identity key for a pool from its presentation
// edition, recomputing the permanent work ID if the edition's fields have
// drifted. A nil identity means the pool cannot belong to any work.
func (s *WorkService) poolIdentity(ctx context.Context, tx store.Tx, pool *domain.LicensePool) (*domain.Edition, *identity, error) {
	if pool.PresentationEditionID == "" {
		return nil, nil, nil
	}

	ed, err := tx.GetEdition(ctx, pool.PresentationEditionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if ed.CalculatePermanentWorkID() {
		ed.Touch()
		if err := tx.UpdateEdition(ctx, ed); err != nil {
			return nil, nil, err
		}
	}
	if ed.PermanentWorkID == "" {
		return ed, nil, nil
	}

	return ed, &identity{
		pwid:     ed.PermanentWorkID,
		medium:   ed.Medium,
		language: ed.Language,
	}, nil
}

func (s *WorkService) detachPool(ctx context.Context, tx store.Tx, pool *domain.LicensePool) error {
	pool.WorkID = ""
	pool.Superceded = false
	pool.Touch()
	return tx.UpdatePool(ctx, pool)
}

// repairWork splits a work that has drifted inconsistent: every sibling of
// the triggering pool whose identity doesn't belong with it is detached
// and re-resolved on its own. The triggering pool stays. Repeated calls in
// any order converge to a consistent state.
func (s *WorkService) repairWork(ctx context.Context, tx store.Tx, pool *domain.LicensePool, ident *identity, res *resolution) error {
	siblings, err := tx.ListPoolsForWork(ctx, pool.WorkID)
	if err != nil {
		return err
	}

	var detached []*domain.LicensePool
	for _, sibling := range siblings {
		if sibling.ID == pool.ID {
			continue
		}
		ok, err := s.belongsTogether(ctx, tx, pool, sibling, ident)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := s.detachPool(ctx, tx, sibling); err != nil {
			return err
		}
		detached = append(detached, sibling)
	}

	for _, sibling := range detached {
		if _, _, err := s.resolvePool(ctx, tx, sibling, false, res); err != nil {
			return err
		}
	}
	return nil
}

// belongsTogether reports whether a sibling may share a work with the
// pool. Commercial pools never share; open-access pools share only with
// open-access siblings of the same identity.
func (s *WorkService) belongsTogether(ctx context.Context, tx store.Tx, pool, sibling *domain.LicensePool, ident *identity) (bool, error) {
	if !pool.OpenAccess || !sibling.OpenAccess {
		return false, nil
	}

	_, siblingIdent, err := s.poolIdentity(ctx, tx, sibling)
	if err != nil {
		return false, err
	}
	if siblingIdent == nil {
		return false, nil
	}
	return *siblingIdent == *ident, nil
}

// assignOpenAccess is the lookup-or-create-or-merge step for an
// open-access pool: all eligible open-access pools of one identity key
// share exactly one work.
func (s *WorkService) assignOpenAccess(ctx context.Context, tx store.Tx, pool *domain.LicensePool, ed *domain.Edition, ident *identity, res *resolution) (*domain.Work, bool, error) {
	eligible, err := tx.ListEligibleOpenAccessPools(ctx, ident.pwid, ident.medium, ident.language)
	if err != nil {
		return nil, false, err
	}

	// Distinct works in discovery order, with eligible-pool counts.
	var workIDs []string
	counts := make(map[string]int)
	for _, p := range eligible {
		if p.WorkID == "" {
			continue
		}
		if counts[p.WorkID] == 0 {
			workIDs = append(workIDs, p.WorkID)
		}
		counts[p.WorkID]++
	}

	switch len(workIDs) {
	case 0:
		// No eligible pool owns a work yet. An open-access work may still
		// exist for the key, e.g. when every member is suppressed.
		work, err := tx.FindOpenAccessWork(ctx, ident.pwid, ident.medium, ident.language)
		if errors.Is(err, store.ErrNotFound) {
			work, err = s.createWork(ctx, tx, ed, ident, true)
			if err == nil {
				return work, true, s.joinWork(ctx, tx, pool, work)
			}
			if !errors.Is(err, store.ErrAlreadyExists) {
				return nil, false, err
			}
			// Lost a creation race on the identity index; join the winner.
			work, err = tx.FindOpenAccessWork(ctx, ident.pwid, ident.medium, ident.language)
		}
		if err != nil {
			return nil, false, err
		}
		return work, false, s.joinWork(ctx, tx, pool, work)

	case 1:
		work, err := tx.GetWork(ctx, workIDs[0])
		if err != nil {
			return nil, false, err
		}
		return work, false, s.joinWork(ctx, tx, pool, work)

	default:
		// Two or more historical works cover the same key. Merge into the
		// one with the most eligible pools; discovery order breaks ties.
		survivorID := workIDs[0]
		for _, candidate := range workIDs[1:] {
			if counts[candidate] > counts[survivorID] {
				survivorID = candidate
			}
		}

		survivor, err := tx.GetWork(ctx, survivorID)
		if err != nil {
			return nil, false, err
		}
		for _, loserID := range workIDs {
			if loserID == survivorID {
				continue
			}
			loser, err := tx.GetWork(ctx, loserID)
			if err != nil {
				return nil, false, err
			}
			if err := mergeGuard(loser, survivor); err != nil {
				return nil, false, err
			}
			if err := s.mergeWorks(ctx, tx, loser, survivor, res); err != nil {
				return nil, false, err
			}
		}
		return survivor, false, s.joinWork(ctx, tx, pool, survivor)
	}
}

// assignCommercial keeps each commercial offering on its own work: license
// terms differ per offering, so commercial pools never group by identity.
func (s *WorkService) assignCommercial(ctx context.Context, tx store.Tx, pool *domain.LicensePool, ed *domain.Edition, ident *identity) (*domain.Work, bool, error) {
	if pool.WorkID != "" {
		work, err := tx.GetWork(ctx, pool.WorkID)
		if err == nil {
			return work, false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, err
		}
	}

	work, err := s.createWork(ctx, tx, ed, ident, false)
	if err != nil {
		return nil, false, err
	}
	return work, true, s.joinWork(ctx, tx, pool, work)
}

func (s *WorkService) createWork(ctx context.Context, tx store.Tx, ed *domain.Edition, ident *identity, openAccess bool) (*domain.Work, error) {
	workID, err := id.Generate("work")
	if err != nil {
		return nil, err
	}

	work := &domain.Work{
		PermanentWorkID: ident.pwid,
		Title:           ed.Title,
		Author:          ed.AuthorForIdentity(),
		Medium:          ident.medium,
		Language:        ident.language,
		OpenAccess:      openAccess,
	}
	work.ID = workID
	work.InitTimestamps()

	if err := tx.CreateWork(ctx, work); err != nil {
		return nil, err
	}
	return work, nil
}

func (s *WorkService) joinWork(ctx context.Context, tx store.Tx, pool *domain.LicensePool, work *domain.Work) error {
	if pool.WorkID == work.ID {
		return nil
	}
	pool.WorkID = work.ID
	pool.Touch()
	return tx.UpdatePool(ctx, pool)
}

// mergeGuard rejects merges that would corrupt catalog identity. The error
// names both works and the mismatched identities or flags; callers must
// never coerce past it.
func mergeGuard(loser, winner *domain.Work) error {
	if loser.OpenAccess != winner.OpenAccess {
		return domainerrors.InvariantViolationf(
			"cannot merge work %s (open access: %t) into work %s (open access: %t): open-access and commercial works never merge",
			loser.ID, loser.OpenAccess, winner.ID, winner.OpenAccess,
		).WithDetails(map[string]string{
			"loser_id":   loser.ID,
			"winner_id":  winner.ID,
			"conflict":   "open_access",
			"loser_oa":   boolString(loser.OpenAccess),
			"winner_oa":  boolString(winner.OpenAccess),
		})
	}
	if loser.PermanentWorkID != "" && winner.PermanentWorkID != "" &&
		loser.PermanentWorkID != winner.PermanentWorkID {
		return domainerrors.InvariantViolationf(
			"cannot merge work %s (permanent work ID %s) into work %s (permanent work ID %s)",
			loser.ID, loser.PermanentWorkID, winner.ID, winner.PermanentWorkID,
		).WithDetails(map[string]string{
			"loser_id":    loser.ID,
			"winner_id":   winner.ID,
			"conflict":    "permanent_work_id",
			"loser_pwid":  loser.PermanentWorkID,
			"winner_pwid": winner.PermanentWorkID,
		})
	}
	return nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// mergeWorks moves the loser's pools onto the winner and deletes the loser
// row. Genre affinities are not merged; the winner's next reclassification
// recomputes them from the combined pool set.
func (s *WorkService) mergeWorks(ctx context.Context, tx store.Tx, loser, winner *domain.Work, res *resolution) error {
	pools, err := tx.ListPoolsForWork(ctx, loser.ID)
	if err != nil {
		return err
	}
	for _, pool := range pools {
		pool.WorkID = winner.ID
		pool.Touch()
		if err := tx.UpdatePool(ctx, pool); err != nil {
			return err
		}
	}

	if err := tx.DeleteWork(ctx, loser.ID); err != nil {
		return err
	}

	res.drop(loser.ID)
	res.coverageMoves = append(res.coverageMoves, [2]string{loser.ID, winner.ID})
	res.touch(winner.ID)
	return nil
}

// refreshWork recomputes everything derived from a work's pool set:
// superceded flags, the presentation fields copied from the representative
// pool's edition, and the open-access flag. A work left with no pools is
// deleted.
func (s *WorkService) refreshWork(ctx context.Context, tx store.Tx, work *domain.Work, res *resolution) error {
	pools, err := tx.ListPoolsForWork(ctx, work.ID)
	if err != nil {
		return err
	}

	if len(pools) == 0 {
		if err := tx.DeleteWork(ctx, work.ID); err != nil {
			return err
		}
		res.drop(work.ID)
		return nil
	}

	titles := make(map[string]string)
	editions := make(map[string]*domain.Edition)
	for _, pool := range pools {
		if pool.PresentationEditionID == "" {
			continue
		}
		ed, err := tx.GetEdition(ctx, pool.PresentationEditionID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		editions[pool.ID] = ed
		titles[pool.ID] = ed.Title
	}

	// One active pool per open-access class; everyone else is superceded.
	byClass := make(map[bool][]*domain.LicensePool)
	for _, pool := range pools {
		byClass[pool.OpenAccess] = append(byClass[pool.OpenAccess], pool)
	}
	active := make(map[string]bool)
	for _, class := range byClass {
		if chosen := ChooseActive(class, titles); chosen != nil {
			active[chosen.ID] = true
		}
	}
	for _, pool := range pools {
		superceded := !active[pool.ID]
		if pool.Superceded != superceded {
			pool.Superceded = superceded
			pool.Touch()
			if err := tx.UpdatePool(ctx, pool); err != nil {
				return err
			}
		}
	}

	// Presentation comes from the open-access representative when there is
	// one, else the commercial representative.
	rep := ChooseActive(byClass[true], titles)
	if rep == nil {
		rep = ChooseActive(byClass[false], titles)
	}

	allOpen := true
	for _, pool := range pools {
		if !pool.OpenAccess {
			allOpen = false
			break
		}
	}
	work.OpenAccess = allOpen

	if ed := editions[rep.ID]; ed != nil {
		work.PermanentWorkID = ed.PermanentWorkID
		work.Title = ed.Title
		work.Author = ed.AuthorForIdentity()
		work.Medium = ed.Medium
		work.Language = ed.Language
	}
	work.PresentationReady = work.Title != ""
	work.Touch()

	return tx.UpdateWork(ctx, work)
}

func (s *WorkService) refreshWorkByID(ctx context.Context, tx store.Tx, workID string, res *resolution) error {
	work, err := tx.GetWork(ctx, workID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.refreshWork(ctx, tx, work, res)
}

// ChooseActive returns the preferred representative among pools of one
// class. titles maps pool ID to its presentation edition's title.
// Preference: not suppressed, open access, deliverable, more owned
// licenses, better data source, a non-empty title; ties keep the earlier
// pool, so discovery order makes the choice deterministic.
func ChooseActive(pools []*domain.LicensePool, titles map[string]string) *domain.LicensePool {
	var best *domain.LicensePool
	for _, pool := range pools {
		if best == nil || betterPool(pool, best, titles) {
			best = pool
		}
	}
	return best
}

func betterPool(a, b *domain.LicensePool, titles map[string]string) bool {
	if a.Suppressed != b.Suppressed {
		return !a.Suppressed
	}
	if a.OpenAccess != b.OpenAccess {
		return a.OpenAccess
	}
	if a.HasDeliverable != b.HasDeliverable {
		return a.HasDeliverable
	}
	if a.LicensesOwned != b.LicensesOwned {
		return a.LicensesOwned > b.LicensesOwned
	}
	if pa, pb := domain.SourcePriority(a.DataSource), domain.SourcePriority(b.DataSource); pa != pb {
		return pa > pb
	}
	if at, bt := titles[a.ID] != "", titles[b.ID] != ""; at != bt {
		return at
	}
	return false
}

// project applies the post-commit side effects of a resolution: coverage
// record moves, index deletions for merged-away works, and reindexing of
// every touched work.
func (s *WorkService) project(ctx context.Context, res *resolution) {
	if s.coverage != nil {
		for _, move := range res.coverageMoves {
			if err := s.coverage.Transfer(move[0], move[1]); err != nil {
				s.logger.Warn("transfer coverage failed", "from", move[0], "to", move[1], "error", err)
			}
		}
	}

	for _, workID := range res.deleted {
		if s.index != nil {
			if err := s.index.DeleteWork(workID); err != nil {
				s.logger.Warn("delete work from index failed", "work_id", workID, "error", err)
			}
		}
		if s.coverage != nil {
			if err := s.coverage.DeleteEntity(workID); err != nil {
				s.logger.Warn("delete coverage failed", "work_id", workID, "error", err)
			}
		}
	}

	for workID := range res.touched {
		s.reindexWork(ctx, workID)
	}
}

func (s *WorkService) reindexWork(ctx context.Context, workID string) {
	work, err := s.store.GetWork(ctx, workID)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("load work for reindex failed", "work_id", workID, "error", err)
		return
	}

	workGenres, err := s.store.ListWorkGenres(ctx, workID)
	if err != nil {
		s.logger.Warn("load work genres for reindex failed", "work_id", workID, "error", err)
		return
	}

	if s.index != nil {
		if err := s.index.IndexWork(search.WorkToDocument(work, workGenres)); err != nil {
			s.logger.Warn("index work failed", "work_id", workID, "error", err)
			s.recordSearchCoverage(workID, err)
			return
		}
	}
	s.recordSearchCoverage(workID, nil)
}

func (s *WorkService) recordPoolCoverage(poolID string, opErr error) {
	if s.coverage == nil {
		return
	}
	rec := &domain.CoverageRecord{
		EntityID:  poolID,
		Operation: domain.CoverageCalculateWork,
	}
	if opErr != nil {
		rec.Exception = opErr.Error()
	}
	if err := s.coverage.Record(rec); err != nil {
		s.logger.Warn("record coverage failed", "pool_id", poolID, "error", err)
	}
}

func (s *WorkService) recordSearchCoverage(workID string, opErr error) {
	if s.coverage == nil {
		return
	}
	rec := &domain.CoverageRecord{
		EntityID:  workID,
		Operation: domain.CoverageUpdateSearchDoc,
	}
	if opErr != nil {
		rec.Exception = opErr.Error()
	}
	if err := s.coverage.Record(rec); err != nil {
		s.logger.Warn("record coverage failed", "work_id", workID, "error", err)
	}
}
