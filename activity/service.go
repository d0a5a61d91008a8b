package activity

import (
	"bytes"
	"context"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/util"
)

type Backend interface {
	ListActivities(ctx context.Context) ([]models.Activity, error)
	LogActivity(ctx context.Context, category, description string)
}

type Service struct {
	backend Backend
	loc     *time.Location
	now     func() time.Time
}

func NewService(backend Backend, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{backend: backend, loc: loc, now: time.Now}
}

func (s *Service) ParseFilter(p Params) Filter {
	return ParseFilter(p, s.now(), s.loc)
}

type Row struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	TimeLabel   string    `json:"timeLabel"`
	User        string    `json:"user"`
	Action      string    `json:"action"`
	ActionLabel string    `json:"actionLabel"`
	ActionBadge string    `json:"actionBadge"`
	Category    string    `json:"category"`
	EntityBadge string    `json:"entityBadge"`
	Details     string    `json:"details"`
}

type View struct {
	Items      []Row      `json:"items"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	PageSizes  []int      `json:"pageSizes"`
	TotalItems int        `json:"totalItems"`
	TotalPages int        `json:"totalPages"`
	ResultFrom int        `json:"resultFrom"`
	ResultTo   int        `json:"resultTo"`
	Pages      []PageItem `json:"pages"`
	Users      []string   `json:"users"`
	Presets    []Preset   `json:"presets"`
	HasFilters bool       `json:"hasFilters"`
	From       string     `json:"from,omitempty"`
	To         string     `json:"to,omitempty"`
	Category   Category   `json:"category"`
	User       string     `json:"user"`
	Query      string     `json:"q"`
}

// View loads the whole log once and filters and pages it locally.
func (s *Service) View(ctx context.Context, f Filter) (View, error) {
	all, err := s.backend.ListActivities(ctx)
	if err != nil {
		return View{}, err
	}
	pg := util.Paginate(Apply(all, f), f.Page, f.PageSize)

	v := View{
		Items:      make([]Row, 0, len(pg.Items)),
		Page:       pg.Page,
		PageSize:   pg.PageSize,
		PageSizes:  PageSizes,
		TotalItems: pg.TotalItems,
		TotalPages: pg.TotalPages,
		ResultFrom: pg.From(),
		ResultTo:   pg.To(),
		Pages:      PageWindow(pg.Page, pg.TotalPages),
		Users:      Users(all),
		Presets:    Presets,
		HasFilters: f.Active(),
		Category:   f.Category,
		User:       f.User,
		Query:      f.Query,
	}
	if !f.From.IsZero() {
		v.From = f.From.In(s.loc).Format(dateLayout)
	}
	if !f.To.IsZero() {
		v.To = f.To.In(s.loc).Format(dateLayout)
	}
	for _, a := range pg.Items {
		v.Items = append(v.Items, s.row(a))
	}
	return v, nil
}

func (s *Service) row(a models.Activity) Row {
	k := a.Kind()
	return Row{
		ID:          a.ID,
		Timestamp:   a.CreatedAt,
		TimeLabel:   a.CreatedAt.In(s.loc).Format(timeLayout),
		User:        a.UserEmail,
		Action:      k.Display(),
		ActionLabel: k.Action.Label(),
		ActionBadge: k.Action.Badge(),
		Category:    k.Entity.String(),
		EntityBadge: k.Entity.Badge(),
		Details:     a.Description,
	}
}

// Export renders every row matching f, across all pages.
func (s *Service) Export(ctx context.Context, f Filter, format Format) ([]byte, string, error) {
	all, err := s.backend.ListActivities(ctx)
	if err != nil {
		return nil, "", err
	}
	rows := Apply(all, f)

	var buf bytes.Buffer
	switch format {
	case FormatXLSX:
		err = WriteXLSX(&buf, rows, s.loc)
	default:
		format = FormatPDF
		err = WritePDF(&buf, rows, s.loc, "Activity Log")
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), FileName(format, s.now()), nil
}

// Append records an entry on behalf of the caller.
func (s *Service) Append(ctx context.Context, category, description string) {
	s.backend.LogActivity(ctx, category, description)
}
