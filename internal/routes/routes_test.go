package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ataredge/tutorhub/internal/app"
	"github.com/ataredge/tutorhub/internal/config"
	"github.com/ataredge/tutorhub/internal/middleware"
	"github.com/ataredge/tutorhub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const founder = "founder@example.com"

type testSite struct {
	app *app.App
	srv *httptest.Server
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		AppName:            "Test Academy",
		AppEnv:             "test",
		AppURL:             "http://example.test",
		FounderEmail:       founder,
		DataDir:            dir,
		DBDriver:           "sqlite",
		DBConnection:       filepath.Join(dir, "data.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite",
		SessionSecret:      "test-secret",
		SessionExpiry:      time.Hour,
		AuthRateLimit:      1000,
		AuthRateWindow:     time.Minute,
		EmailProvider:      config.EmailProviderLog,
		EmailFrom:          founder,
		NotifyWorkers:      1,
		NotifyMaxAttempts:  3,
		NotifyPollInterval: 10 * time.Millisecond,
		UploadsDir:         filepath.Join(dir, "uploads"),
		UploadsPrefix:      "/uploads/",
	}

	a, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(SetupRoutes(a))
	t.Cleanup(func() {
		srv.Close()
		_ = a.Close()
	})

	return &testSite{app: a, srv: srv}
}

func (s *testSite) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, s.app.DB.Get(&n, query, args...))
	return n
}

func (s *testSite) sampleTutorID(t *testing.T) string {
	t.Helper()
	require.NoError(t, s.app.TutorService.EnsureSampleTutor())
	tutors, err := s.app.TutorService.Tutors("")
	require.NoError(t, err)
	require.NotEmpty(t, tutors)
	return tutors[0].ID
}

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t    *testing.T
	site *testSite
	http *http.Client
}

func (s *testSite) browser(t *testing.T) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		site: s,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) cookie(name string) string {
	u, _ := url.Parse(b.site.srv.URL)
	for _, c := range b.http.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrf returns the token from the cookie jar, visiting the home page first if needed.
func (b *browser) csrf() string {
	if token := b.cookie(middleware.CSRFCookieName); token != "" {
		return token
	}
	res := b.get("/")
	_ = res.Body.Close()
	token := b.cookie(middleware.CSRFCookieName)
	require.NotEmpty(b.t, token)
	return token
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	res, err := b.http.Do(req)
	require.NoError(b.t, err)
	return res
}

func (b *browser) get(path string) *http.Response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.site.srv.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values, headers ...string) *http.Response {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(middleware.CSRFFormField, b.csrf())

	req, err := http.NewRequest(http.MethodPost, b.site.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return b.do(req)
}

func (b *browser) signup(name, email, password string) *http.Response {
	return b.post("/signup", url.Values{"name": {name}, "email": {email}, "password": {password}})
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	defer func() { _ = res.Body.Close() }()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func TestPublicPagesRender(t *testing.T) {
	site := newTestSite(t)
	tutorID := site.sampleTutorID(t)
	b := site.browser(t)

	for _, path := range []string{"/", "/about", "/services", "/privacy", "/terms", "/tutors", "/tutors?subject=Physics", "/tutors/" + tutorID, "/contact", "/join-team", "/signup", "/login"} {
		res := b.get(path)
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
		assert.Contains(t, body(t, res), "Test Academy", path)
	}

	res := b.get("/tutors?subject=Latin")
	assert.Contains(t, body(t, res), "No tutors match")

	res = b.get("/no-such-page")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	_ = res.Body.Close()
}

func TestUnknownTutorIsNotFound(t *testing.T) {
	site := newTestSite(t)
	b := site.browser(t)

	res := b.get("/tutors/missing")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Tutor not found\n", body(t, res))

	res = b.post("/tutors/missing/contact", url.Values{"fullName": {"Pat"}, "email": {"pat@example.com"}, "message": {"hi"}})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	_ = res.Body.Close()
	assert.Zero(t, site.count(t, `SELECT COUNT(*) FROM inquiries`))
}

func TestSubmissionsAddOneOpenRow(t *testing.T) {
	site := newTestSite(t)
	tutorID := site.sampleTutorID(t)
	b := site.browser(t)

	res := b.post("/contact", url.Values{"name": {"Ann"}, "email": {"ann@example.com"}, "message": {"Hello"}})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "We received your message")

	res = b.post("/join-team", url.Values{"fullName": {"Sam"}, "email": {"sam@example.com"}, "atar": {"98.5"}})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Thanks for applying")

	res = b.post("/tutors/"+tutorID+"/contact", url.Values{"fullName": {"Pat"}, "email": {"pat@example.com"}, "relation": {"Parent"}, "message": {"Physics help"}})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Your enquiry has been sent")

	for _, table := range []string{"contacts", "applications", "inquiries"} {
		assert.Equal(t, 1, site.count(t, `SELECT COUNT(*) FROM `+table), table)
		assert.Equal(t, 1, site.count(t, `SELECT COUNT(*) FROM `+table+` WHERE status = 'open'`), table)
	}

	assert.Equal(t, 6, site.count(t, `SELECT COUNT(*) FROM notification_jobs`), "internal notice and receipt per submission")
}

func TestSubmissionWithoutCSRFTokenIsRejected(t *testing.T) {
	site := newTestSite(t)

	res, err := http.PostForm(site.srv.URL+"/contact", url.Values{"name": {"Ann"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	_ = res.Body.Close()
	assert.Zero(t, site.count(t, `SELECT COUNT(*) FROM contacts`))
}

func TestSubmissionStoreFailureShowsGenericError(t *testing.T) {
	site := newTestSite(t)
	tutorID := site.sampleTutorID(t)
	for _, table := range []string{"contacts", "applications", "inquiries"} {
		_, err := site.app.DB.Exec(`CREATE TRIGGER ` + table + `_fail BEFORE INSERT ON ` + table + ` BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
		require.NoError(t, err)
	}
	b := site.browser(t)

	for _, tc := range []struct {
		path string
		form url.Values
		want string
	}{
		{"/contact", url.Values{"name": {"Ann"}, "email": {"ann@example.com"}, "message": {"Hello"}}, "could not send your message"},
		{"/join-team", url.Values{"fullName": {"Sam"}, "email": {"sam@example.com"}}, "could not submit your application"},
		{"/tutors/" + tutorID + "/contact", url.Values{"fullName": {"Pat"}, "email": {"pat@example.com"}}, "could not send your enquiry"},
	} {
		res := b.post(tc.path, tc.form)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode, tc.path)
		html := body(t, res)
		assert.Contains(t, html, tc.want, tc.path)
		for _, leak := range []string{"disk full", "RAISE", "SQL", "INSERT"} {
			assert.NotContains(t, html, leak, tc.path)
		}
	}

	for _, table := range []string{"contacts", "applications", "inquiries"} {
		assert.Zero(t, site.count(t, `SELECT COUNT(*) FROM `+table), table)
	}
}

func TestSubmissionsSucceedWhenQueueIsDown(t *testing.T) {
	site := newTestSite(t)
	tutorID := site.sampleTutorID(t)
	_, err := site.app.DB.Exec(`DROP TABLE notification_jobs`)
	require.NoError(t, err)
	b := site.browser(t)

	res := b.post("/contact", url.Values{"name": {"Ann"}, "email": {"ann@example.com"}, "message": {"Hello"}})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "We received your message")

	res = b.post("/join-team", url.Values{"fullName": {"Sam"}, "email": {"sam@example.com"}})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Thanks for applying")

	res = b.post("/tutors/"+tutorID+"/contact", url.Values{"fullName": {"Pat"}, "email": {"pat@example.com"}})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Your enquiry has been sent")

	for _, table := range []string{"contacts", "applications", "inquiries"} {
		assert.Equal(t, 1, site.count(t, `SELECT COUNT(*) FROM `+table+` WHERE status = 'open'`), table)
	}
}

func TestSignupWithMissingFieldCreatesNothing(t *testing.T) {
	site := newTestSite(t)

	for _, form := range []url.Values{
		{"name": {""}, "email": {"a@example.com"}, "password": {"pw"}},
		{"name": {"Ann"}, "email": {""}, "password": {"pw"}},
		{"name": {"Ann"}, "email": {"a@example.com"}, "password": {""}},
	} {
		b := site.browser(t)
		res := b.post("/signup", form)
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/signup", res.Header.Get("Location"))
		_ = res.Body.Close()
		assert.Empty(t, b.cookie(service.SessionCookieName))
	}

	assert.Zero(t, site.count(t, `SELECT COUNT(*) FROM accounts`))
}

func TestDuplicateSignupCreatesNothing(t *testing.T) {
	site := newTestSite(t)

	res := site.browser(t).signup("Ann", "ann@example.com", "pw")
	assert.Equal(t, "/", res.Header.Get("Location"))
	_ = res.Body.Close()

	b := site.browser(t)
	res = b.signup("Ann Again", "ANN@example.com", "other")
	assert.Equal(t, "/signup", res.Header.Get("Location"))
	_ = res.Body.Close()
	assert.Empty(t, b.cookie(service.SessionCookieName))

	assert.Equal(t, 1, site.count(t, `SELECT COUNT(*) FROM accounts`))
}

func TestLoginLogoutThenJoinRedirects(t *testing.T) {
	site := newTestSite(t)
	res := site.browser(t).signup("Ann", "ann@example.com", "secret")
	_ = res.Body.Close()

	b := site.browser(t)
	res = b.post("/login", url.Values{"email": {"ann@example.com"}, "password": {"wrong"}})
	assert.Equal(t, "/login", res.Header.Get("Location"))
	_ = res.Body.Close()

	res = b.post("/login", url.Values{"email": {"nobody@example.com"}, "password": {"secret"}})
	assert.Equal(t, "/login", res.Header.Get("Location"))
	_ = res.Body.Close()

	res = b.post("/login", url.Values{"email": {"ann@example.com"}, "password": {"secret"}})
	assert.Equal(t, "/", res.Header.Get("Location"))
	_ = res.Body.Close()
	require.NotEmpty(t, b.cookie(service.SessionCookieName))

	res = b.get("/join")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	_ = res.Body.Close()

	res = b.get("/logout")
	assert.Equal(t, "/", res.Header.Get("Location"))
	_ = res.Body.Close()
	assert.Empty(t, b.cookie(service.SessionCookieName))

	res = b.get("/join")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/login", res.Header.Get("Location"))
	_ = res.Body.Close()

	assert.Equal(t, 1, site.count(t, `SELECT COUNT(*) FROM sessions`), "only the signup session remains")
}

func TestStolenCookieDiesWithLogout(t *testing.T) {
	site := newTestSite(t)
	b := site.browser(t)
	res := b.signup("Ann", "ann@example.com", "secret")
	_ = res.Body.Close()
	token := b.cookie(service.SessionCookieName)

	res = b.get("/logout")
	_ = res.Body.Close()

	req, err := http.NewRequest(http.MethodGet, site.srv.URL+"/join", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: token})
	res = site.browser(t).do(req)
	assert.Equal(t, "/login", res.Header.Get("Location"))
	_ = res.Body.Close()
}

func multipartJoin(t *testing.T, b *browser, bio string, photo []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField(middleware.CSRFFormField, b.csrf()))
	require.NoError(t, w.WriteField("bio", bio))
	if photo != nil {
		part, err := w.CreateFormFile("photo", "me.png")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, b.site.srv.URL+"/join", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.do(req)
}

func TestJoinAsTutorRefreshesSession(t *testing.T) {
	site := newTestSite(t)
	b := site.browser(t)
	res := b.signup("Ann", "ann@example.com", "secret")
	_ = res.Body.Close()

	res = b.get("/")
	assert.Contains(t, body(t, res), `href="/join"`)

	res = multipartJoin(t, b, "I love chemistry", []byte("not a picture"))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	_ = res.Body.Close()
	assert.Zero(t, site.count(t, `SELECT COUNT(*) FROM accounts WHERE is_tutor`))

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	res = multipartJoin(t, b, "I love chemistry", png)
	assert.Equal(t, "/", res.Header.Get("Location"))
	_ = res.Body.Close()

	res = b.get("/")
	page := body(t, res)
	assert.NotContains(t, page, `href="/join"`, "session snapshot carries the tutor flag")
	assert.Contains(t, page, "Ann")

	tutors, err := site.app.TutorService.Tutors("")
	require.NoError(t, err)
	require.Len(t, tutors, 1)
	assert.Equal(t, "I love chemistry", *tutors[0].Bio)

	res = b.get(tutors[0].PhotoURL)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	_ = res.Body.Close()

	assert.Equal(t, 1, site.count(t, `SELECT COUNT(*) FROM sessions`), "old snapshot replaced")
}

func adminBrowser(t *testing.T, site *testSite) *browser {
	t.Helper()
	b := site.browser(t)
	res := b.signup("Founder", strings.ToUpper(founder), "secret")
	require.Equal(t, "/", res.Header.Get("Location"))
	_ = res.Body.Close()
	return b
}

func TestNonAdminGetsForbidden(t *testing.T) {
	site := newTestSite(t)
	res := site.browser(t).post("/contact", url.Values{"name": {"Ann"}, "email": {"ann@example.com"}, "message": {"Hi"}})
	_ = res.Body.Close()
	var contactID string
	require.NoError(t, site.app.DB.Get(&contactID, `SELECT id FROM contacts`))

	anonymous := site.browser(t)
	member := site.browser(t)
	res = member.signup("Member", "member@example.com", "pw")
	_ = res.Body.Close()

	for _, b := range []*browser{anonymous, member} {
		for _, path := range []string{"/admin", "/admin/inquiries", "/admin/applications", "/admin/contacts", "/admin/anything"} {
			res := b.get(path)
			assert.Equal(t, http.StatusForbidden, res.StatusCode, path)
			assert.Equal(t, "Forbidden\n", body(t, res), path)
		}

		res := b.post("/admin/contacts/"+contactID+"/status", url.Values{"status": {"closed"}})
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
		_ = res.Body.Close()

		res = b.post("/admin/applications/x/delete", nil)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
		_ = res.Body.Close()
	}

	assert.Equal(t, 1, site.count(t, `SELECT COUNT(*) FROM contacts WHERE status = 'open'`))
}

func TestContactTriageEndToEnd(t *testing.T) {
	site := newTestSite(t)
	visitor := site.browser(t)
	for _, name := range []string{"Ann", "Ben"} {
		res := visitor.post("/contact", url.Values{"name": {name}, "email": {strings.ToLower(name) + "@example.com"}, "message": {"Hello from " + name}})
		_ = res.Body.Close()
	}

	admin := adminBrowser(t, site)

	res := admin.get("/admin")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Open contacts")

	res = admin.get("/admin/contacts")
	page := body(t, res)
	assert.Contains(t, page, "Hello from Ann")
	assert.Contains(t, page, "Open (2)")

	var annID string
	require.NoError(t, site.app.DB.Get(&annID, `SELECT id FROM contacts WHERE name = 'Ann'`))

	// Omitted status marks the row read; it stays open
	res = admin.post("/admin/contacts/"+annID+"/status", nil)
	assert.Equal(t, "/admin/contacts", res.Header.Get("Location"))
	_ = res.Body.Close()
	assert.Equal(t, 1, site.count(t, `SELECT COUNT(*) FROM contacts WHERE status = 'in_progress'`))

	counts, err := site.app.TriageService.Counts()
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Contacts)

	for range 2 {
		res = admin.post("/admin/contacts/"+annID+"/status", url.Values{"status": {"closed"}}, "X-Requested-With", "XMLHttpRequest")
		assert.Equal(t, http.StatusOK, res.StatusCode)
		var reply map[string]bool
		require.NoError(t, json.NewDecoder(res.Body).Decode(&reply))
		_ = res.Body.Close()
		assert.True(t, reply["ok"])
	}

	counts, err = site.app.TriageService.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Contacts)
	assert.Equal(t, counts.Contacts, site.count(t, `SELECT COUNT(*) FROM contacts WHERE status IS NULL OR status <> 'closed'`))

	res = admin.get("/admin/contacts")
	page = body(t, res)
	assert.Contains(t, page, "Open (1)")
	assert.Contains(t, page, "Closed (1)")

	res = admin.post("/admin/contacts/missing/status", url.Values{"status": {"closed"}}, "Accept", "application/json")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	_ = res.Body.Close()

	res = admin.post("/admin/users/"+annID+"/status", url.Values{"status": {"closed"}})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	_ = res.Body.Close()
}

func TestInquiryListingShowsTutorName(t *testing.T) {
	site := newTestSite(t)
	tutorID := site.sampleTutorID(t)
	res := site.browser(t).post("/tutors/"+tutorID+"/contact", url.Values{"fullName": {"Pat"}, "email": {"pat@example.com"}, "message": {"Chemistry"}})
	_ = res.Body.Close()

	admin := adminBrowser(t, site)
	res = admin.get("/admin/inquiries")
	page := body(t, res)
	assert.Contains(t, page, "For Hariharan Manikandan")
	assert.Contains(t, page, "Pat")
}

func TestDeleteApplication(t *testing.T) {
	site := newTestSite(t)
	visitor := site.browser(t)
	for _, name := range []string{"Keep", "Drop"} {
		res := visitor.post("/join-team", url.Values{"fullName": {name}, "email": {"x@example.com"}})
		_ = res.Body.Close()
	}
	var dropID string
	require.NoError(t, site.app.DB.Get(&dropID, `SELECT id FROM applications WHERE full_name = 'Drop'`))

	admin := adminBrowser(t, site)
	for range 2 {
		res := admin.post("/admin/applications/"+dropID+"/delete", nil)
		assert.Equal(t, "/admin/applications", res.Header.Get("Location"))
		_ = res.Body.Close()
	}

	assert.Equal(t, 1, site.count(t, `SELECT COUNT(*) FROM applications`))
	assert.Equal(t, 1, site.count(t, `SELECT COUNT(*) FROM applications WHERE full_name = 'Keep'`))
}

func TestSEOEndpoints(t *testing.T) {
	site := newTestSite(t)
	tutorID := site.sampleTutorID(t)
	b := site.browser(t)

	res := b.get("/robots.txt")
	robots := body(t, res)
	assert.Contains(t, robots, "Disallow: /admin")
	assert.Contains(t, robots, "Sitemap: http://example.test/sitemap.xml")

	res = b.get("/sitemap.xml")
	assert.Equal(t, "application/xml; charset=utf-8", res.Header.Get("Content-Type"))
	sitemap := body(t, res)
	assert.Contains(t, sitemap, "<loc>http://example.test/about</loc>")
	assert.Contains(t, sitemap, "<loc>http://example.test/tutors/"+tutorID+"</loc>")
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	site := newTestSite(t)
	res := site.browser(t).get("/")
	_ = res.Body.Close()

	assert.Contains(t, res.Header.Get("Content-Security-Policy"), "'nonce-")
	assert.Equal(t, "DENY", res.Header.Get("X-Frame-Options"))
}
