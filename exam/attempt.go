package exam

import (
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/google/uuid"
)

// Unset marks an unanswered slot.
const Unset = -1

const (
	msgIncomplete  = "Please answer all questions before submitting."
	msgNoQuestions = "This course has no questions yet."
	msgLoadFailed  = "Failed to load course"
	msgSubmitFail  = "Failed to submit"
)

type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitting
	StateResult
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateResult:
		return "result"
	case StateError:
		return "error"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Attempt is one sitting of a course exam. All methods are safe for
// concurrent use; the state machine rejects out-of-order calls.
type Attempt struct {
	mu sync.Mutex

	id        string
	courseID  string
	course    models.Course
	state     State
	answers   []int
	result    *models.ExamResult
	message   string
	touchedAt time.Time
}

func NewAttempt(courseID string) *Attempt {
	return &Attempt{
		id:        uuid.NewString(),
		courseID:  courseID,
		state:     StateLoading,
		touchedAt: time.Now(),
	}
}

func (a *Attempt) ID() string { return a.id }

// Loaded moves a loading attempt to Ready with one unset slot per question.
func (a *Attempt) Loaded(course models.Course) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateLoading {
		return apperrors.ErrInvalidState
	}
	a.course = safeCourse(course)
	a.answers = newAnswers(len(a.course.Questions))
	a.state = StateReady
	a.touch()
	return nil
}

func (a *Attempt) LoadFailed(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateLoading {
		return
	}
	a.state = StateError
	a.message = apperrors.Message(err, msgLoadFailed)
	a.touch()
}

// Select records option for question, overwriting any earlier choice.
func (a *Attempt) Select(question, option int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.state {
	case StateReady:
	case StateSubmitting:
		return apperrors.ErrBusy
	default:
		return apperrors.ErrInvalidState
	}
	if question < 0 || question >= len(a.answers) {
		return apperrors.Validation("question", "Question index out of range.")
	}
	if option < 0 || option >= models.OptionsPerQuestion {
		return apperrors.Validation("option", "Option index out of range.")
	}
	a.answers[question] = option
	a.touch()
	return nil
}

// Reset clears every slot. From a result it starts a retake of the same course.
func (a *Attempt) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.state {
	case StateReady, StateResult:
	case StateSubmitting:
		return apperrors.ErrBusy
	default:
		return apperrors.ErrInvalidState
	}
	a.answers = newAnswers(len(a.course.Questions))
	a.result = nil
	a.message = ""
	a.state = StateReady
	a.touch()
	return nil
}

// BeginSubmit checks completeness locally and, if the answers are complete,
// moves to Submitting and returns the vector to send.
func (a *Attempt) BeginSubmit() ([]int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.state {
	case StateReady:
	case StateSubmitting:
		return nil, apperrors.ErrBusy
	default:
		return nil, apperrors.ErrInvalidState
	}
	if len(a.answers) == 0 {
		return nil, apperrors.Validation("", msgNoQuestions)
	}
	if !complete(a.answers) {
		return nil, apperrors.Validation("", msgIncomplete)
	}
	a.state = StateSubmitting
	a.message = ""
	a.touch()
	out := make([]int, len(a.answers))
	copy(out, a.answers)
	return out, nil
}

// Complete stores the backend's verdict as is.
func (a *Attempt) Complete(result models.ExamResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateSubmitting {
		return apperrors.ErrInvalidState
	}
	a.result = &result
	a.answers = newAnswers(len(a.course.Questions))
	a.state = StateResult
	a.touch()
	return nil
}

// Fail returns a failed submission to Ready with its answers intact.
func (a *Attempt) Fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateSubmitting {
		return
	}
	a.state = StateReady
	a.message = apperrors.Message(err, msgSubmitFail)
	a.touch()
}

type Certificate struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

func (a *Attempt) Certificate() (Certificate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateResult || !certificateAvailable(a.result) {
		return Certificate{}, apperrors.ErrNoCertificate
	}
	u := a.result.CertificateTemplateURL
	return Certificate{URL: u, FileName: CertificateFileName(u, a.course.Name)}, nil
}

// View is the read model handed to the exam page.
type View struct {
	AttemptID      string             `json:"attemptId"`
	CourseID       string             `json:"courseId"`
	CourseName     string             `json:"courseName,omitempty"`
	State          State              `json:"state"`
	Questions      []QuestionView     `json:"questions"`
	Answered       int                `json:"answered"`
	Total          int                `json:"total"`
	Complete       bool               `json:"complete"`
	Message        string             `json:"message,omitempty"`
	Result         *models.ExamResult `json:"result,omitempty"`
	HasCertificate bool               `json:"hasCertificate"`
}

type QuestionView struct {
	Index    int      `json:"index"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Selected *int     `json:"selected"`
}

func (a *Attempt) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	v := View{
		AttemptID:  a.id,
		CourseID:   a.courseID,
		CourseName: a.course.Name,
		State:      a.state,
		Questions:  make([]QuestionView, 0, len(a.course.Questions)),
		Total:      len(a.answers),
		Message:    a.message,
	}
	for i, q := range a.course.Questions {
		qv := QuestionView{Index: i, Text: q.Text, Options: q.Options}
		if i < len(a.answers) && a.answers[i] != Unset {
			sel := a.answers[i]
			qv.Selected = &sel
			v.Answered++
		}
		v.Questions = append(v.Questions, qv)
	}
	v.Complete = len(a.answers) > 0 && complete(a.answers)
	if a.result != nil {
		r := *a.result
		v.Result = &r
		v.HasCertificate = certificateAvailable(a.result)
	}
	return v
}

// Answers returns a copy of the current answer vector.
func (a *Attempt) Answers() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]int, len(a.answers))
	copy(out, a.answers)
	return out
}

func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Attempt) idleSince(now time.Time) time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateSubmitting {
		return 0
	}
	return now.Sub(a.touchedAt)
}

func (a *Attempt) touch() {
	a.touchedAt = time.Now()
}

// CertificateFileName is the last path segment of u without its query,
// or "<course>.png" when u has none.
func CertificateFileName(u, courseName string) string {
	if parsed, err := url.Parse(u); err == nil {
		if base := path.Base(parsed.Path); base != "." && base != "/" && base != "" {
			return base
		}
	}
	if courseName == "" {
		courseName = "certificate"
	}
	return courseName + ".png"
}

func certificateAvailable(r *models.ExamResult) bool {
	return r != nil && r.Passed && r.CertificateTemplateURL != ""
}

func newAnswers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = Unset
	}
	return out
}

func complete(answers []int) bool {
	for _, v := range answers {
		if v == Unset {
			return false
		}
	}
	return true
}

// safeCourse keeps only what the exam page may see.
func safeCourse(c models.Course) models.Course {
	qs := make([]models.SafeQuestion, len(c.Questions))
	for i, q := range c.Questions {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		qs[i] = models.SafeQuestion{Text: q.Text, Options: opts}
	}
	return models.Course{ID: c.ID, Name: c.Name, CertificateTemplateURL: c.CertificateTemplateURL, Questions: qs}
}
