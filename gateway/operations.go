package gateway

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
)

type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	in := map[string]string{"email": email, "password": password}
	if err := c.doJSON(anonymous(ctx), http.MethodPost, c.endpoints.Users+"/login", in, &out); err != nil {
		return LoginResult{}, err
	}
	if out.Token == "" {
		return LoginResult{}, apperrors.FromStatus(http.StatusBadGateway, "Login response did not include a token")
	}
	return out, nil
}

type NewUser struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// AddUser creates an account and returns the temporary password the backend issued.
func (c *Client) AddUser(ctx context.Context, u NewUser) (string, error) {
	var out struct {
		TempPassword string `json:"tempPassword"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoints.Users+"/adduser", u, &out); err != nil {
		return "", err
	}
	return out.TempPassword, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.doJSON(ctx, http.MethodGet, c.endpoints.Users, nil, &out)
	return out, err
}

func (c *Client) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	return c.doJSON(ctx, http.MethodPut, c.user(id, "role"), map[string]models.Role{"role": role}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.user(id), nil, nil)
}

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	err := c.doJSON(ctx, http.MethodGet, c.endpoints.Courses, nil, &out)
	return out, err
}

// GetCourse returns the learner view of a course; its questions never carry answers.
func (c *Client) GetCourse(ctx context.Context, id string) (models.Course, error) {
	var out models.Course
	err := c.doJSON(ctx, http.MethodGet, c.course(id), nil, &out)
	return out, err
}

func (c *Client) GetCourseForManage(ctx context.Context, id string) (models.Course, error) {
	var out models.Course
	err := c.doJSON(ctx, http.MethodGet, c.course(id, "manage"), nil, &out)
	return out, err
}

func (c *Client) CreateCourse(ctx context.Context, form *multipart.Form) (models.Course, error) {
	var out models.Course
	err := c.sendForm(ctx, http.MethodPost, c.endpoints.Courses, form, &out)
	return out, err
}

func (c *Client) UpdateCourse(ctx context.Context, id string, form *multipart.Form) (models.Course, error) {
	var out models.Course
	err := c.sendForm(ctx, http.MethodPatch, c.course(id), form, &out)
	return out, err
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.course(id), nil, nil)
}

func (c *Client) CourseStatus(ctx context.Context, id string) (models.StatusRecord, error) {
	var out models.StatusRecord
	err := c.doJSON(ctx, http.MethodGet, c.course(id, "status"), nil, &out)
	return out, err
}

// SubmitAttempt sends the full answer vector. Scoring is the backend's job;
// the verdict comes back as is.
func (c *Client) SubmitAttempt(ctx context.Context, id string, answers []int) (models.ExamResult, error) {
	var out models.ExamResult
	in := map[string][]int{"answers": answers}
	err := c.doJSON(ctx, http.MethodPost, c.course(id, "attempt"), in, &out)
	return out, err
}

func (c *Client) GetQuestions(ctx context.Context, id string) ([]models.Question, error) {
	var out struct {
		Questions []models.Question `json:"questions"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.course(id, "questions"), nil, &out); err != nil {
		return nil, err
	}
	if out.Questions == nil {
		return []models.Question{}, nil
	}
	return out.Questions, nil
}

func (c *Client) ReplaceQuestions(ctx context.Context, id string, questions []models.Question) error {
	in := map[string][]models.Question{"questions": questions}
	return c.doJSON(ctx, http.MethodPut, c.course(id, "questions"), in, nil)
}

func (c *Client) ListActivities(ctx context.Context) ([]models.Activity, error) {
	var out []models.Activity
	err := c.doJSON(ctx, http.MethodGet, c.endpoints.Activities, nil, &out)
	return out, err
}

// LogActivity records an audit entry. It is fire-and-forget from the
// caller's point of view: failures are logged and swallowed.
func (c *Client) LogActivity(ctx context.Context, category, description string) {
	in := map[string]string{"category": category, "description": description}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoints.Activities, in, nil); err != nil {
		c.log.Warn().Err(err).Str("category", category).Msg("Activity log failed")
	}
}

type Binary struct {
	Data        []byte
	ContentType string
}

// FetchBinary downloads a file such as a certificate. The session token is
// only attached when the file is served by the backend itself.
func (c *Client) FetchBinary(ctx context.Context, target string) (Binary, error) {
	if !c.sameOrigin(target) {
		ctx = anonymous(ctx)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Binary{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Binary{}, apperrors.Network(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Binary{}, apperrors.Network(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Binary{}, apperrors.FromStatus(resp.StatusCode, backendMessage(data))
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return Binary{Data: data, ContentType: ct}, nil
}

type BackupResult struct {
	Message string `json:"message"`
}

func (c *Client) TriggerBackup(ctx context.Context) (BackupResult, error) {
	var out BackupResult
	err := c.doJSON(ctx, http.MethodPost, c.endpoints.SystemBackup, nil, &out)
	return out, err
}

func (c *Client) GoogleLoginURL() string {
	return c.endpoints.Auth + "/google"
}

func (c *Client) AzureLoginURL() string {
	return c.endpoints.AzureAuth + "/azure"
}

func (c *Client) sendForm(ctx context.Context, method, target string, form *multipart.Form, out any) error {
	pr, pw := io.Pipe()
	defer pr.Close()
	w := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(w, form))
	}()
	return c.do(ctx, method, target, pr, w.FormDataContentType(), out)
}

// writeForm re-encodes an incoming upload, keeping each file's own headers.
func writeForm(w *multipart.Writer, form *multipart.Form) error {
	if form != nil {
		for _, key := range sortedKeys(form.Value) {
			for _, v := range form.Value[key] {
				if err := w.WriteField(key, v); err != nil {
					return err
				}
			}
		}
		for _, key := range sortedKeys(form.File) {
			for _, fh := range form.File[key] {
				if err := copyFile(w, key, fh); err != nil {
					return err
				}
			}
		}
	}
	return w.Close()
}

func copyFile(w *multipart.Writer, field string, fh *multipart.FileHeader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fh.Filename))
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(part, f)
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
