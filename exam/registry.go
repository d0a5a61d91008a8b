package exam

import (
	"context"
	"sync"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/rs/zerolog"
)

type Backend interface {
	GetCourse(ctx context.Context, id string) (models.Course, error)
	SubmitAttempt(ctx context.Context, id string, answers []int) (models.ExamResult, error)
}

type key struct {
	user   string
	course string
}

// Registry holds the live attempt of every (user, course) pair.
type Registry struct {
	mu       sync.Mutex
	attempts map[key]*Attempt
	backend  Backend
	log      zerolog.Logger
}

func NewRegistry(backend Backend, log zerolog.Logger) *Registry {
	return &Registry{
		attempts: make(map[key]*Attempt),
		backend:  backend,
		log:      log,
	}
}

// Load starts a fresh attempt, replacing whatever the user had open unless
// a submission for it is still in flight.
func (r *Registry) Load(ctx context.Context, userID, courseID string) (*Attempt, error) {
	a := NewAttempt(courseID)
	r.mu.Lock()
	if cur, ok := r.attempts[key{userID, courseID}]; ok && cur.State() == StateSubmitting {
		r.mu.Unlock()
		return cur, apperrors.ErrBusy
	}
	r.attempts[key{userID, courseID}] = a
	r.mu.Unlock()

	course, err := r.backend.GetCourse(ctx, courseID)
	if err != nil {
		a.LoadFailed(err)
		return a, err
	}
	if err := a.Loaded(course); err != nil {
		return a, err
	}
	r.log.Debug().Str("attempt", a.ID()).Str("course", courseID).Int("questions", len(course.Questions)).Msg("exam loaded")
	return a, nil
}

func (r *Registry) Get(userID, courseID string) (*Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[key{userID, courseID}]
	if !ok {
		return nil, apperrors.ErrNoAttempt
	}
	return a, nil
}

// Submit runs one submission round trip. Incomplete answers never leave
// the process; a backend failure leaves the attempt ready to resubmit.
func (r *Registry) Submit(ctx context.Context, userID, courseID string) (models.ExamResult, error) {
	a, err := r.Get(userID, courseID)
	if err != nil {
		return models.ExamResult{}, err
	}
	answers, err := a.BeginSubmit()
	if err != nil {
		return models.ExamResult{}, err
	}
	result, err := r.backend.SubmitAttempt(ctx, courseID, answers)
	if err != nil {
		a.Fail(err)
		r.log.Warn().Err(err).Str("attempt", a.ID()).Str("course", courseID).Msg("exam submission failed")
		return models.ExamResult{}, err
	}
	if err := a.Complete(result); err != nil {
		return models.ExamResult{}, err
	}
	r.log.Info().Str("attempt", a.ID()).Str("course", courseID).Bool("passed", result.Passed).Msg("exam submitted")
	return result, nil
}

func (r *Registry) Discard(userID, courseID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, key{userID, courseID})
}

// Prune drops attempts idle for longer than maxIdle and reports how many went.
func (r *Registry) Prune(maxIdle time.Duration) int {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, a := range r.attempts {
		if a.idleSince(now) > maxIdle {
			delete(r.attempts, k)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}
