package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type StatusSource interface {
	CourseStatus(ctx context.Context, id string) (models.StatusRecord, error)
}

type cacheKey struct {
	user   string
	course string
}

type cached struct {
	status models.Status
	at     time.Time
}

// Resolver looks up a user's status for many courses at once. Known
// statuses are reused for a short while; a failed lookup counts as
// NotAttempted so a slow status service never blocks a listing.
type Resolver struct {
	src   StatusSource
	limit int
	ttl   time.Duration
	log   zerolog.Logger

	mu    sync.Mutex
	cache map[cacheKey]cached
	now   func() time.Time
}

func NewResolver(src StatusSource, log zerolog.Logger) *Resolver {
	return &Resolver{
		src:   src,
		limit: 8,
		ttl:   30 * time.Second,
		log:   log,
		cache: make(map[cacheKey]cached),
		now:   time.Now,
	}
}

// Resolve returns a status for every course id given. Anonymous callers
// have attempted nothing.
func (r *Resolver) Resolve(ctx context.Context, userID string, courseIDs []string) map[string]models.Status {
	out := make(map[string]models.Status, len(courseIDs))
	if userID == "" {
		for _, id := range courseIDs {
			out[id] = models.NotAttempted
		}
		return out
	}
	var missing []string
	r.mu.Lock()
	now := r.now()
	for _, id := range courseIDs {
		if _, dup := out[id]; dup {
			continue
		}
		if c, ok := r.cache[cacheKey{userID, id}]; ok && now.Sub(c.at) < r.ttl {
			out[id] = c.status
			continue
		}
		out[id] = models.NotAttempted
		missing = append(missing, id)
	}
	r.mu.Unlock()

	if len(missing) == 0 {
		return out
	}

	resolved := make([]models.Status, len(missing))
	ok := make([]bool, len(missing))
	var g errgroup.Group
	g.SetLimit(r.limit)
	for i, id := range missing {
		g.Go(func() error {
			rec, err := r.src.CourseStatus(ctx, id)
			if err != nil {
				r.log.Debug().Err(err).Str("course", id).Msg("status lookup failed, assuming not attempted")
				return nil
			}
			resolved[i] = models.StatusOf(rec)
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	now = r.now()
	for i, id := range missing {
		if !ok[i] {
			continue
		}
		out[id] = resolved[i]
		r.cache[cacheKey{userID, id}] = cached{status: resolved[i], at: now}
	}
	return out
}

// One resolves a single course; an error is returned rather than masked.
func (r *Resolver) One(ctx context.Context, userID, courseID string) (models.Status, error) {
	if userID == "" {
		return models.NotAttempted, apperrors.ErrNotAuthenticated
	}
	rec, err := r.src.CourseStatus(ctx, courseID)
	if err != nil {
		return models.NotAttempted, err
	}
	s := models.StatusOf(rec)
	r.mu.Lock()
	r.cache[cacheKey{userID, courseID}] = cached{status: s, at: r.now()}
	r.mu.Unlock()
	return s, nil
}

// Invalidate forgets a cached status, e.g. after an exam submission.
func (r *Resolver) Invalidate(userID, courseID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, cacheKey{userID, courseID})
}
