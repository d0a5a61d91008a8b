package catalog

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu          sync.Mutex
	courses     []models.Course
	status      map[string]models.StatusRecord
	statusErr   map[string]error
	statusCalls []string
	deleted     []string
	replaced    []models.Question
	logged      []string
	created     int
}

func (f *fakeBackend) CourseStatus(_ context.Context, id string) (models.StatusRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, id)
	if err := f.statusErr[id]; err != nil {
		return models.StatusRecord{}, err
	}
	return f.status[id], nil
}

func (f *fakeBackend) ListCourses(context.Context) ([]models.Course, error) {
	return f.courses, nil
}

func (f *fakeBackend) GetCourse(_ context.Context, id string) (models.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Course{}, apperrors.FromStatus(404, "Course not found")
}

func (f *fakeBackend) GetCourseForManage(ctx context.Context, id string) (models.Course, error) {
	return f.GetCourse(ctx, id)
}

func (f *fakeBackend) CreateCourse(_ context.Context, form *multipart.Form) (models.Course, error) {
	f.created++
	return models.Course{ID: "new", Name: form.Value["courseName"][0]}, nil
}

func (f *fakeBackend) UpdateCourse(_ context.Context, id string, _ *multipart.Form) (models.Course, error) {
	return models.Course{ID: id, Name: "Updated"}, nil
}

func (f *fakeBackend) DeleteCourse(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) GetQuestions(context.Context, string) ([]models.Question, error) {
	return f.replaced, nil
}

func (f *fakeBackend) ReplaceQuestions(_ context.Context, _ string, qs []models.Question) error {
	f.replaced = qs
	return nil
}

func (f *fakeBackend) LogActivity(_ context.Context, category, description string) {
	f.logged = append(f.logged, category+": "+description)
}

func (f *fakeBackend) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.statusCalls...)
	sort.Strings(out)
	return out
}

func newFake(n int) *fakeBackend {
	f := &fakeBackend{status: map[string]models.StatusRecord{}, statusErr: map[string]error{}}
	for i := 0; i < n; i++ {
		f.courses = append(f.courses, models.Course{ID: fmt.Sprintf("c%02d", i), Name: fmt.Sprintf("Course %02d", i), CreatedBy: "owner"})
	}
	return f
}

func newService(f *fakeBackend) *Service {
	return NewService(f, NewResolver(f, zerolog.Nop()))
}

func TestCatalogResolvesOnlyTheVisiblePage(t *testing.T) {
	f := newFake(20)
	f.status["c08"] = models.StatusRecord{Attempted: true}
	svc := newService(f)

	view, err := svc.Catalog(context.Background(), "u1", ParseFilter("", "all", "2"))
	require.NoError(t, err)
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 3, view.TotalPages)
	assert.Len(t, view.Courses, 8)
	assert.Len(t, f.calls(), 8)
	assert.Equal(t, models.InProgress, view.Courses[0].Status)
	assert.Equal(t, "Continue Course", view.Courses[0].StatusLabel)
	assert.Equal(t, "Free", view.Courses[0].PriceLabel)
}

func TestCatalogStatusFilterResolvesEverything(t *testing.T) {
	f := newFake(10)
	f.status["c03"] = models.StatusRecord{Attempted: true, Passed: true}
	f.status["c07"] = models.StatusRecord{Attempted: true, Passed: true}
	svc := newService(f)

	view, err := svc.Catalog(context.Background(), "u1", ParseFilter("", "completed", "1"))
	require.NoError(t, err)
	assert.Len(t, f.calls(), 10)
	require.Len(t, view.Courses, 2)
	assert.Equal(t, "c03", view.Courses[0].ID)
	assert.Equal(t, "c07", view.Courses[1].ID)
	assert.Equal(t, "completed", view.Status)
}

func TestStatusLookupFailsOpen(t *testing.T) {
	f := newFake(2)
	f.status["c00"] = models.StatusRecord{Attempted: true, Passed: true}
	f.statusErr["c00"] = errors.New("status service down")
	svc := newService(f)

	view, err := svc.Catalog(context.Background(), "u1", ParseFilter("", "new", "1"))
	require.NoError(t, err)
	assert.Len(t, view.Courses, 2)
	for _, c := range view.Courses {
		assert.Equal(t, models.NotAttempted, c.Status)
	}
}

func TestResolverCachesAndInvalidates(t *testing.T) {
	f := newFake(1)
	r := NewResolver(f, zerolog.Nop())
	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }

	r.Resolve(context.Background(), "u1", []string{"c00", "c00"})
	r.Resolve(context.Background(), "u1", []string{"c00"})
	assert.Len(t, f.calls(), 1)

	r.Resolve(context.Background(), "u2", []string{"c00"})
	assert.Len(t, f.calls(), 2)

	r.Invalidate("u1", "c00")
	r.Resolve(context.Background(), "u1", []string{"c00"})
	assert.Len(t, f.calls(), 3)

	now = now.Add(time.Minute)
	r.Resolve(context.Background(), "u1", []string{"c00"})
	assert.Len(t, f.calls(), 4)
}

func TestDetailSurvivesStatusFailure(t *testing.T) {
	f := newFake(1)
	f.courses[0].Questions = []models.SafeQuestion{{Text: "Q", Options: []string{"a", "b", "c", "d"}}}
	f.statusErr["c00"] = errors.New("boom")
	svc := newService(f)

	view, err := svc.Detail(context.Background(), "u1", "c00")
	require.NoError(t, err)
	assert.False(t, view.StatusKnown)
	assert.Equal(t, models.NotAttempted, view.Status)
	assert.Equal(t, ExamButton{Label: "Take Test"}, view.ExamButton)
	assert.Equal(t, 1, view.QuestionCount)
}

func TestDetailCourseFailure(t *testing.T) {
	svc := newService(newFake(0))
	_, err := svc.Detail(context.Background(), "u1", "missing")
	assert.Equal(t, apperrors.KindBackend, apperrors.KindOf(err))
}

func TestOwnCourses(t *testing.T) {
	f := newFake(3)
	f.courses[1].CreatedBy = "someone-else"
	svc := newService(f)

	view, err := svc.Own(context.Background(), "owner", "", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, "1-2 of 2", view.Range)

	view, err = svc.Own(context.Background(), "owner", "02", 1, 5)
	require.NoError(t, err)
	require.Len(t, view.Courses, 1)
	assert.Equal(t, "c02", view.Courses[0].ID)

	assert.Empty(t, OwnedBy(f.courses, ""))
}

func TestDeleteLogsCourseName(t *testing.T) {
	f := newFake(1)
	svc := newService(f)

	require.NoError(t, svc.Delete(context.Background(), "c00"))
	assert.Equal(t, []string{"c00"}, f.deleted)
	assert.Equal(t, []string{`Course Deleted: Deleted course "Course 00"`}, f.logged)
}

func TestCreateValidatesEmbeddedQuestions(t *testing.T) {
	f := newFake(0)
	svc := newService(f)

	bad := &multipart.Form{Value: map[string][]string{
		"courseName": {"Go"},
		"questions":  {`[{"text":"Q","options":["a","b","","d"],"correctIndex":1}]`},
	}}
	_, err := svc.Create(context.Background(), bad)
	assert.Equal(t, "All 4 options are required.", apperrors.Message(err, ""))
	assert.Zero(t, f.created)

	good := &multipart.Form{Value: map[string][]string{"courseName": {"Go"}}}
	course, err := svc.Create(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, "new", course.ID)
	assert.Equal(t, []string{`Course Added: Created course "Go"`}, f.logged)
}

func TestReplaceQuestions(t *testing.T) {
	f := newFake(1)
	svc := newService(f)
	two := 2

	qs, err := svc.ReplaceQuestions(context.Background(), "c00", []QuestionInput{{Text: " Q ", Options: []string{"a", "b", "c", "d"}, CorrectIndex: &two}})
	require.NoError(t, err)
	assert.Equal(t, []models.Question{{Text: "Q", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2}}, qs)
	assert.Equal(t, qs, f.replaced)
}
