package controllers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/activity"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/catalog"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/controllers"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/exam"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/gateway"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/routers"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/util"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is a stand-in for the course platform API.
type backend struct {
	mu         sync.Mutex
	attempts   [][]int
	activities []string
	added      []map[string]string
}

func (b *backend) record(f func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f()
}

func (b *backend) submitted() [][]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]int(nil), b.attempts...)
}

func (b *backend) logged() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.activities...)
}

func (b *backend) addedUsers() []map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]string(nil), b.added...)
}

var accounts = map[string]map[string]any{
	"root@skillshare.io": {"_id": "u0", "name": "Root", "email": "root@skillshare.io", "role": "SuperAdmin"},
	"ada@skillshare.io":  {"_id": "u1", "name": "Ada", "email": "ada@skillshare.io", "role": "Admin"},
	"vic@skillshare.io":  {"_id": "u2", "name": "Vic", "email": "vic@skillshare.io", "role": "Viewer"},
	"lee@skillshare.io":  {"_id": "u3", "name": "Lee", "email": "lee@skillshare.io", "role": "Lecture"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		u, ok := accounts[in["email"]]
		if !ok || in["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-" + u["_id"].(string), "user": u})
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer tok-") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "jwt expired"})
			return
		}
		list := make([]map[string]any, 0, len(accounts))
		for _, email := range []string{"root@skillshare.io", "ada@skillshare.io", "vic@skillshare.io", "lee@skillshare.io"} {
			list = append(list, accounts[email])
		}
		writeJSON(w, http.StatusOK, list)
	})
	mux.HandleFunc("POST /users/adduser", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.record(func() { b.added = append(b.added, in) })
		writeJSON(w, http.StatusCreated, map[string]string{"tempPassword": "Xy7-temp"})
	})
	mux.HandleFunc("GET /courses", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"_id": "c1", "courseName": "Network Basics", "price": 1500, "questions": []any{}},
			{"_id": "c2", "courseName": "Phishing 101", "price": 0, "questions": []any{}},
		})
	})
	mux.HandleFunc("GET /courses/c1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"_id":        "c1",
			"courseName": "Network Basics",
			"questions": []map[string]any{
				{"text": "Port of HTTPS?", "options": []string{"21", "443", "80", "25"}, "correctIndex": 1},
				{"text": "Layer of IP?", "options": []string{"1", "2", "4", "3"}, "correctIndex": 3},
			},
		})
	})
	mux.HandleFunc("GET /courses/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"attempted": r.PathValue("id") == "c2", "passed": true})
	})
	mux.HandleFunc("POST /courses/c1/attempt", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Answers []int `json:"answers"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.record(func() { b.attempts = append(b.attempts, in.Answers) })
		writeJSON(w, http.StatusOK, map[string]any{"score": 2, "total": 2, "percent": 100, "passed": true})
	})
	mux.HandleFunc("POST /api/activities", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.record(func() { b.activities = append(b.activities, in["category"]) })
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /tmf-api/productCatalogManagement/v5/admin/backup/now", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Backup queued"})
	})
	return mux
}

// browser replays cookies between app.Test calls.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T) (*browser, *backend) {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	log := zerolog.Nop()
	client := gateway.New(srv.URL, gateway.WithLogger(log))
	cfg := &util.Config{Env: "TEST", APIURL: srv.URL}
	store := session.NewStore(session.Config{RememberFor: time.Hour, SessionIdle: time.Hour})
	h := controllers.New(controllers.Deps{
		Config:   cfg,
		Sessions: store,
		Gateway:  client,
		Catalog:  catalog.NewService(client, catalog.NewResolver(client, log)),
		Exams:    exam.NewRegistry(client, log),
		Activity: activity.NewService(client, time.UTC),
		Log:      log,
	})
	app := fiber.New()
	routers.SetupRoutes(app, h, store, nil)
	return &browser{t: t, app: app, cookies: map[string]*http.Cookie{}}, b
}

func (br *browser) send(method, target, body string) *http.Response {
	br.t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range br.cookies {
		req.AddCookie(c)
	}
	resp, err := br.app.Test(req, -1)
	require.NoError(br.t, err)
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(br.cookies, c.Name)
			continue
		}
		br.cookies[c.Name] = c
	}
	return resp
}

func (br *browser) do(method, target, body string) (int, map[string]any) {
	br.t.Helper()
	resp := br.send(method, target, body)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(br.t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(br.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// follow issues a GET and returns the redirect status and target.
func (br *browser) follow(target string) (int, string) {
	br.t.Helper()
	resp := br.send(http.MethodGet, target, "")
	defer resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Location")
}

func (br *browser) login(email string, remember bool) {
	br.t.Helper()
	body := `{"email":"` + email + `","password":"secret","rememberMe":` + map[bool]string{true: "true", false: "false"}[remember] + `}`
	status, out := br.do(http.MethodPost, "/auth/login", body)
	require.Equal(br.t, http.StatusOK, status, out)
}

func TestHealthAndNotFound(t *testing.T) {
	br, _ := newBrowser(t)

	status, out := br.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", out["status"])

	status, out = br.do(http.MethodGet, "/no-such-page", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", out["message"])
}

func TestProtectedRoutesAskForLogin(t *testing.T) {
	br, _ := newBrowser(t)

	status, out := br.do(http.MethodGet, "/courses", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/login", out["redirect"])

	status, _ = br.do(http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogin(t *testing.T) {
	t.Run("bad credentials", func(t *testing.T) {
		br, _ := newBrowser(t)
		status, out := br.do(http.MethodPost, "/auth/login", `{"email":"ada@skillshare.io","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid email or password.", out["message"])
		assert.Empty(t, br.cookies)
	})

	t.Run("malformed email", func(t *testing.T) {
		br, _ := newBrowser(t)
		status, out := br.do(http.MethodPost, "/auth/login", `{"email":"ada","password":"secret"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Please enter a valid email address.", out["message"])
	})

	for _, remember := range []bool{true, false} {
		t.Run(fmt.Sprintf("session lifecycle remember=%v", remember), func(t *testing.T) {
			br, _ := newBrowser(t)
			br.login("ada@skillshare.io", remember)
			if remember {
				assert.Contains(t, br.cookies, session.DurableCookie)
				assert.NotContains(t, br.cookies, session.SessionCookie)
			} else {
				assert.Contains(t, br.cookies, session.SessionCookie)
				assert.NotContains(t, br.cookies, session.DurableCookie)
			}

			for i := 0; i < 2; i++ {
				status, out := br.do(http.MethodGet, "/auth/me", "")
				require.Equal(t, http.StatusOK, status, out)
				assert.Equal(t, true, out["isAuthenticated"])
				assert.Equal(t, "Admin", out["role"])
			}

			status, _ := br.do(http.MethodPost, "/auth/logout", "")
			require.Equal(t, http.StatusOK, status)
			status, _ = br.do(http.MethodGet, "/auth/me", "")
			assert.Equal(t, http.StatusUnauthorized, status)
		})
	}
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

func callbackURL(token, user string) string {
	q := url.Values{"token": {token}}
	if user != "" {
		q.Set("user", user)
	}
	return "/auth/callback?" + q.Encode()
}

func TestAuthCallback(t *testing.T) {
	viewer := jwt.MapClaims{"id": "u2", "email": "vic@skillshare.io", "role": "Viewer", "exp": time.Now().Add(time.Hour).Unix()}

	t.Run("accepted after a provider login", func(t *testing.T) {
		br, _ := newBrowser(t)
		status, location := br.follow("/auth/google")
		require.Equal(t, http.StatusFound, status)
		assert.True(t, strings.HasSuffix(location, "/auth/google"), location)

		status, location = br.follow(callbackURL(signedToken(t, viewer), `{"_id":"u2","name":"Vic","role":"Viewer"}`))
		assert.Equal(t, http.StatusFound, status)
		assert.Equal(t, "/", location)
		assert.Contains(t, br.cookies, session.DurableCookie)

		status, out := br.do(http.MethodGet, "/auth/me", "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Viewer", out["role"])
		assert.Equal(t, "Vic", out["user"].(map[string]any)["name"])
	})

	t.Run("ignored without a provider login", func(t *testing.T) {
		br, _ := newBrowser(t)
		status, location := br.follow(callbackURL(signedToken(t, viewer), ""))
		assert.Equal(t, http.StatusFound, status)
		assert.Equal(t, "/login", location)

		status, _ = br.do(http.MethodGet, "/auth/me", "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	rejected := map[string]string{
		"unreadable token": callbackURL("garbage", `{"id":"nobody","role":"SuperAdmin"}`),
		"role mismatch":    callbackURL(signedToken(t, viewer), `{"id":"u2","role":"SuperAdmin"}`),
		"id mismatch":      callbackURL(signedToken(t, viewer), `{"id":"u0","role":"Viewer"}`),
		"expired token": callbackURL(signedToken(t, jwt.MapClaims{
			"id": "u2", "role": "Viewer", "exp": time.Now().Add(-time.Hour).Unix(),
		}), ""),
	}
	for name, target := range rejected {
		t.Run(name, func(t *testing.T) {
			br, _ := newBrowser(t)
			br.follow("/auth/azure")

			status, location := br.follow(target)
			assert.Equal(t, http.StatusFound, status)
			assert.Equal(t, "/login", location)

			status, _ = br.do(http.MethodGet, "/auth/me", "")
			assert.Equal(t, http.StatusUnauthorized, status)
			_, nav := br.do(http.MethodGet, "/navigation", "")
			assert.Equal(t, "Viewer", nav["role"])
		})
	}
}

func TestNavigationFollowsRole(t *testing.T) {
	br, _ := newBrowser(t)
	_, anon := br.do(http.MethodGet, "/navigation", "")

	br.login("root@skillshare.io", false)
	_, root := br.do(http.MethodGet, "/navigation", "")

	assert.Greater(t, len(root["items"].([]any)), len(anon["items"].([]any)))
}

func TestCatalogListsCoursesWithStatus(t *testing.T) {
	br, _ := newBrowser(t)
	br.login("vic@skillshare.io", false)

	status, out := br.do(http.MethodGet, "/courses?status=completed", "")
	require.Equal(t, http.StatusOK, status, out)
	view := out["catalog"].(map[string]any)
	courses := view["courses"].([]any)
	require.Len(t, courses, 1)
	assert.Equal(t, "c2", courses[0].(map[string]any)["id"])
}

func TestUserManagement(t *testing.T) {
	t.Run("viewer is turned away", func(t *testing.T) {
		br, _ := newBrowser(t)
		br.login("vic@skillshare.io", false)
		status, out := br.do(http.MethodGet, "/users", "")
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "/access-denied", out["redirect"])
	})

	t.Run("list excludes self and super admins", func(t *testing.T) {
		br, _ := newBrowser(t)
		br.login("ada@skillshare.io", false)

		status, out := br.do(http.MethodGet, "/users", "")
		require.Equal(t, http.StatusOK, status, out)
		var ids []string
		for _, u := range out["users"].([]any) {
			ids = append(ids, u.(map[string]any)["id"].(string))
		}
		assert.Equal(t, []string{"u2", "u3"}, ids)
		assert.EqualValues(t, 2, out["total"])
		assert.EqualValues(t, 10, out["per_page"])

		_, out = br.do(http.MethodGet, "/users?search=LEE", "")
		assert.EqualValues(t, 1, out["total"])
	})

	t.Run("add user defaults to viewer", func(t *testing.T) {
		br, b := newBrowser(t)
		br.login("ada@skillshare.io", false)

		status, out := br.do(http.MethodPost, "/users", `{"name":"Sam","email":"sam@skillshare.io"}`)
		require.Equal(t, http.StatusCreated, status, out)
		assert.Equal(t, "Xy7-temp", out["tempPassword"])
		added := b.addedUsers()
		require.Len(t, added, 1)
		assert.Equal(t, "Viewer", added[0]["role"])

		status, _ = br.do(http.MethodPost, "/users", `{"name":"Sam","email":"sam@skillshare.io","role":"SuperAdmin"}`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("cannot change own role", func(t *testing.T) {
		br, _ := newBrowser(t)
		br.login("ada@skillshare.io", false)
		status, out := br.do(http.MethodPut, "/users/u1/role", `{"role":"Viewer"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "You cannot change your own role.", out["message"])
	})
}

func TestExamFlow(t *testing.T) {
	br, b := newBrowser(t)
	br.login("vic@skillshare.io", false)

	status, out := br.do(http.MethodGet, "/courses/c1/exam", "")
	require.Equal(t, http.StatusOK, status, out)
	view := out["exam"].(map[string]any)
	assert.Equal(t, "ready", view["state"])
	assert.NotContains(t, view["questions"].([]any)[0], "correctIndex")

	status, _ = br.do(http.MethodPut, "/courses/c1/exam/answers/0", `{"option":1}`)
	require.Equal(t, http.StatusOK, status)

	status, out = br.do(http.MethodPost, "/courses/c1/exam/submit", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please answer all questions before submitting.", out["message"])
	assert.Empty(t, b.submitted())

	status, _ = br.do(http.MethodPut, "/courses/c1/exam/answers/1", `{"option":3}`)
	require.Equal(t, http.StatusOK, status)

	status, out = br.do(http.MethodPost, "/courses/c1/exam/submit", "")
	require.Equal(t, http.StatusOK, status, out)
	assert.Equal(t, true, out["result"].(map[string]any)["passed"])
	assert.Equal(t, [][]int{{1, 3}}, b.submitted())

	status, _ = br.do(http.MethodPost, "/courses/c1/exam/close", "")
	require.Equal(t, http.StatusOK, status)
	status, _ = br.do(http.MethodPost, "/courses/c1/exam/reset", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestActivitiesAndBackup(t *testing.T) {
	t.Run("any user can log", func(t *testing.T) {
		br, b := newBrowser(t)
		br.login("vic@skillshare.io", false)

		status, _ := br.do(http.MethodPost, "/activities", `{"category":"Course Viewed","description":"Network Basics"}`)
		assert.Equal(t, http.StatusAccepted, status)
		status, _ = br.do(http.MethodPost, "/activities", `{"description":"no category"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{"Course Viewed"}, b.logged())
	})

	t.Run("export rejects unknown formats", func(t *testing.T) {
		br, _ := newBrowser(t)
		br.login("ada@skillshare.io", false)
		status, _ := br.do(http.MethodGet, "/activities/export?format=docx", "")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("backup is super admin only", func(t *testing.T) {
		br, b := newBrowser(t)
		br.login("ada@skillshare.io", false)
		status, _ := br.do(http.MethodPost, "/admin/backup", "")
		assert.Equal(t, http.StatusForbidden, status)

		br.login("root@skillshare.io", false)
		status, out := br.do(http.MethodPost, "/admin/backup", "")
		assert.Equal(t, http.StatusAccepted, status)
		assert.Equal(t, "Backup queued", out["message"])
		assert.Equal(t, []string{"System Backup"}, b.logged())
	})
}
