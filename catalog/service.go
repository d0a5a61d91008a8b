package catalog

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/util"
	"golang.org/x/sync/errgroup"
)

type Backend interface {
	StatusSource
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) (models.Course, error)
	GetCourseForManage(ctx context.Context, id string) (models.Course, error)
	CreateCourse(ctx context.Context, form *multipart.Form) (models.Course, error)
	UpdateCourse(ctx context.Context, id string, form *multipart.Form) (models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	GetQuestions(ctx context.Context, id string) ([]models.Question, error)
	ReplaceQuestions(ctx context.Context, id string, questions []models.Question) error
	LogActivity(ctx context.Context, category, description string)
}

type Service struct {
	backend  Backend
	resolver *Resolver
}

func NewService(backend Backend, resolver *Resolver) *Service {
	return &Service{backend: backend, resolver: resolver}
}

func (s *Service) Resolver() *Resolver {
	return s.resolver
}

type Card struct {
	ID            string        `json:"id"`
	Name          string        `json:"courseName"`
	Description   string        `json:"description,omitempty"`
	ThumbnailURL  string        `json:"thumbnailUrl,omitempty"`
	PriceLabel    string        `json:"priceLabel"`
	Status        models.Status `json:"status"`
	StatusLabel   string        `json:"statusLabel"`
	QuestionCount int           `json:"questionCount"`
}

type CatalogView struct {
	Courses       []Card   `json:"courses"`
	Page          int      `json:"page"`
	PageSize      int      `json:"pageSize"`
	TotalItems    int      `json:"totalItems"`
	TotalPages    int      `json:"totalPages"`
	Query         string   `json:"q"`
	Status        string   `json:"status"`
	StatusOptions []Option `json:"statusOptions"`
}

// Catalog lists every course with the caller's progress. Statuses are only
// looked up for the courses the filter actually needs.
func (s *Service) Catalog(ctx context.Context, userID string, f Filter) (CatalogView, error) {
	courses, err := s.backend.ListCourses(ctx)
	if err != nil {
		return CatalogView{}, err
	}
	named := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if f.MatchesName(c) {
			named = append(named, c)
		}
	}

	var pg util.Page[Entry]
	if f.Status.All {
		window := util.Paginate(named, f.Page, f.PageSize)
		statuses := s.resolver.Resolve(ctx, userID, courseIDs(window.Items))
		pg = util.Page[Entry]{
			Items:      entries(window.Items, statuses),
			Page:       window.Page,
			PageSize:   window.PageSize,
			TotalItems: window.TotalItems,
			TotalPages: window.TotalPages,
		}
	} else {
		statuses := s.resolver.Resolve(ctx, userID, courseIDs(named))
		pg = Apply(entries(named, statuses), f)
	}

	view := CatalogView{
		Courses:       make([]Card, 0, len(pg.Items)),
		Page:          pg.Page,
		PageSize:      pg.PageSize,
		TotalItems:    pg.TotalItems,
		TotalPages:    pg.TotalPages,
		Query:         f.NameQuery,
		Status:        f.Status.String(),
		StatusOptions: StatusOptions,
	}
	for _, e := range pg.Items {
		view.Courses = append(view.Courses, cardOf(e))
	}
	return view, nil
}

type DetailView struct {
	Course        models.Course `json:"course"`
	PriceLabel    string        `json:"priceLabel"`
	Status        models.Status `json:"status"`
	StatusLabel   string        `json:"statusLabel"`
	StatusKnown   bool          `json:"statusKnown"`
	QuestionCount int           `json:"questionCount"`
	ExamButton    ExamButton    `json:"examButton"`
}

// Detail reads the course and the caller's status side by side. Only the
// course read can fail the view.
func (s *Service) Detail(ctx context.Context, userID, id string) (DetailView, error) {
	var (
		course models.Course
		status = models.NotAttempted
		known  bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.backend.GetCourse(gctx, id)
		course = c
		return err
	})
	g.Go(func() error {
		st, err := s.resolver.One(gctx, userID, id)
		if err == nil {
			status, known = st, true
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return DetailView{}, err
	}

	n := len(course.Questions)
	return DetailView{
		Course:        course,
		PriceLabel:    PriceLabel(course.Price),
		Status:        status,
		StatusLabel:   status.Label(),
		StatusKnown:   known,
		QuestionCount: n,
		ExamButton:    ExamButtonFor(status, n),
	}, nil
}

type OwnRow struct {
	ID            string `json:"id"`
	Name          string `json:"courseName"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
	PriceLabel    string `json:"priceLabel"`
	QuestionCount int    `json:"questionCount"`
}

type OwnView struct {
	Courses     []OwnRow `json:"courses"`
	Page        int      `json:"page"`
	PageSize    int      `json:"pageSize"`
	TotalItems  int      `json:"totalItems"`
	TotalPages  int      `json:"totalPages"`
	Range       string   `json:"range"`
	RowsOptions []int    `json:"rowsOptions"`
	Query       string   `json:"q"`
}

// Own lists the courses the caller created.
func (s *Service) Own(ctx context.Context, userID, query string, page, rows int) (OwnView, error) {
	courses, err := s.backend.ListCourses(ctx)
	if err != nil {
		return OwnView{}, err
	}
	mine := make([]models.Course, 0)
	for _, c := range OwnedBy(courses, userID) {
		if NameMatches(c.Name, query) {
			mine = append(mine, c)
		}
	}
	pg := util.Paginate(mine, page, rows)
	view := OwnView{
		Courses:     make([]OwnRow, 0, len(pg.Items)),
		Page:        pg.Page,
		PageSize:    pg.PageSize,
		TotalItems:  pg.TotalItems,
		TotalPages:  pg.TotalPages,
		Range:       pg.RangeText(),
		RowsOptions: RowsOptions,
		Query:       query,
	}
	for _, c := range pg.Items {
		view.Courses = append(view.Courses, OwnRow{
			ID:            c.ID,
			Name:          c.Name,
			ThumbnailURL:  c.ThumbnailURL,
			PriceLabel:    PriceLabel(c.Price),
			QuestionCount: len(c.Questions),
		})
	}
	return view, nil
}

// OwnedBy keeps the courses whose creator is userID. No id, no courses.
func OwnedBy(courses []models.Course, userID string) []models.Course {
	if userID == "" {
		return nil
	}
	out := make([]models.Course, 0)
	for _, c := range courses {
		if string(c.CreatedBy) == userID {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) Manage(ctx context.Context, id string) (models.Course, error) {
	return s.backend.GetCourseForManage(ctx, id)
}

// Create forwards a new course upload. An embedded "questions" field is
// validated before anything is sent.
func (s *Service) Create(ctx context.Context, form *multipart.Form) (models.Course, error) {
	if err := validateFormQuestions(form); err != nil {
		return models.Course{}, err
	}
	course, err := s.backend.CreateCourse(ctx, form)
	if err != nil {
		return models.Course{}, err
	}
	s.backend.LogActivity(ctx, "Course Added", fmt.Sprintf("Created course %q", displayName(course, formValue(form, "courseName"))))
	return course, nil
}

func (s *Service) Update(ctx context.Context, id string, form *multipart.Form) (models.Course, error) {
	if err := validateFormQuestions(form); err != nil {
		return models.Course{}, err
	}
	course, err := s.backend.UpdateCourse(ctx, id, form)
	if err != nil {
		return models.Course{}, err
	}
	s.backend.LogActivity(ctx, "Course Updated", fmt.Sprintf("Updated course %q", displayName(course, formValue(form, "courseName"))))
	return course, nil
}

// Delete removes a course; the audit entry names it when the name can be read.
func (s *Service) Delete(ctx context.Context, id string) error {
	name := id
	if c, err := s.backend.GetCourseForManage(ctx, id); err == nil && c.Name != "" {
		name = c.Name
	}
	if err := s.backend.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.backend.LogActivity(ctx, "Course Deleted", fmt.Sprintf("Deleted course %q", name))
	return nil
}

func (s *Service) Questions(ctx context.Context, id string) ([]models.Question, error) {
	return s.backend.GetQuestions(ctx, id)
}

func (s *Service) ReplaceQuestions(ctx context.Context, id string, in []QuestionInput) ([]models.Question, error) {
	qs, err := ValidateQuestions(in)
	if err != nil {
		return nil, err
	}
	if err := s.backend.ReplaceQuestions(ctx, id, qs); err != nil {
		return nil, err
	}
	s.backend.LogActivity(ctx, "Course Updated", fmt.Sprintf("Saved %d questions for course %s", len(qs), id))
	return qs, nil
}

func validateFormQuestions(form *multipart.Form) error {
	raw := formValue(form, "questions")
	if raw == "" {
		return nil
	}
	in, err := ParseQuestions([]byte(raw))
	if err != nil {
		return err
	}
	_, err = ValidateQuestions(in)
	return err
}

func formValue(form *multipart.Form, key string) string {
	if form == nil || len(form.Value[key]) == 0 {
		return ""
	}
	return form.Value[key][0]
}

func displayName(c models.Course, fallback string) string {
	if c.Name != "" {
		return c.Name
	}
	return fallback
}

func courseIDs(courses []models.Course) []string {
	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	return ids
}

func entries(courses []models.Course, statuses map[string]models.Status) []Entry {
	out := make([]Entry, len(courses))
	for i, c := range courses {
		out[i] = Entry{Course: c, Status: statuses[c.ID]}
	}
	return out
}

func cardOf(e Entry) Card {
	return Card{
		ID:            e.Course.ID,
		Name:          e.Course.Name,
		Description:   e.Course.Description,
		ThumbnailURL:  e.Course.ThumbnailURL,
		PriceLabel:    PriceLabel(e.Course.Price),
		Status:        e.Status,
		StatusLabel:   e.Status.Label(),
		QuestionCount: len(e.Course.Questions),
	}
}
