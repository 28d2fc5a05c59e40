package e2e

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/userdash/userdash/internal/factory"
	"github.com/userdash/userdash/internal/web"
)

// E2ESuite exercises the full stack over real HTTP: router, middleware,
// handlers, templates, and the SQLite user store.
type E2ESuite struct {
	suite.Suite
	server *httptest.Server
	client *http.Client
	app    *factory.App
}

func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ESuite))
}

func (s *E2ESuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, err := factory.New(factory.Config{
		UserStoreType:    factory.UserStoreTypeMemory,
		SessionStoreType: factory.SessionStoreTypeMemory,
		Logger:           logger,
	})
	s.Require().NoError(err)
	s.app = app

	router := web.NewRouter(web.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
	})
	s.server = httptest.NewServer(router)

	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.client = &http.Client{Jar: jar}
}

func (s *E2ESuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
	if s.app != nil {
		_ = s.app.Close()
	}
}

// get fetches a page, following redirects like a browser
func (s *E2ESuite) get(path string) *goquery.Document {
	s.T().Helper()
	resp, err := s.client.Get(s.server.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	s.Require().NoError(err)
	return doc
}

// postForm submits a form, following redirects, and returns the landing page
func (s *E2ESuite) postForm(path string, form url.Values) (*goquery.Document, *http.Response) {
	s.T().Helper()
	resp, err := s.client.PostForm(s.server.URL+path, form)
	s.Require().NoError(err)
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	s.Require().NoError(err)
	return doc, resp
}

func flashText(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(".flash").Text())
}

func (s *E2ESuite) TestFullUserJourney() {
	// The root bounces anonymous visitors to the login page
	doc := s.get("/")
	require.Equal(s.T(), 1, doc.Find("form[action='/login']").Length())

	// The dashboard is gated
	doc = s.get("/dashboard")
	s.Equal("Please log in first.", flashText(doc))
	s.Equal(1, doc.Find("form[action='/login']").Length())

	// Register an account
	doc, resp := s.postForm("/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"pw123"},
		"confirm":  {"pw123"},
	})
	s.Equal("/login", resp.Request.URL.Path)
	s.Equal("Registration successful! Please log in.", flashText(doc))

	// Log in, landing on the dashboard with a greeting
	doc, resp = s.postForm("/login", url.Values{
		"username": {"alice"},
		"password": {"pw123"},
	})
	s.Equal("/dashboard", resp.Request.URL.Path)
	s.Equal("Welcome back, alice!", flashText(doc))
	s.Equal("alice", strings.TrimSpace(doc.Find("#dashboard-username").Text()))

	// The greeting is a one-time notice
	doc = s.get("/dashboard")
	s.Empty(flashText(doc))
	s.Equal("alice", strings.TrimSpace(doc.Find("#dashboard-username").Text()))

	// Log out, landing back on the login page
	doc = s.get("/logout")
	s.Equal("You have been logged out.", flashText(doc))

	// The dashboard is gated again
	doc = s.get("/dashboard")
	s.Equal("Please log in first.", flashText(doc))
}

func (s *E2ESuite) TestBadLoginThenGoodLogin() {
	s.postForm("/register", url.Values{
		"username": {"bob"},
		"email":    {"bob@example.com"},
		"password": {"hunter2!"},
		"confirm":  {"hunter2!"},
	})

	doc, resp := s.postForm("/login", url.Values{
		"username": {"bob"},
		"password": {"wrong"},
	})
	s.Equal("/login", resp.Request.URL.Path)
	s.Equal("Invalid username or password.", flashText(doc))

	doc, resp = s.postForm("/login", url.Values{
		"username": {"bob"},
		"password": {"hunter2!"},
	})
	s.Equal("/dashboard", resp.Request.URL.Path)
	s.Equal("Welcome back, bob!", flashText(doc))
}
