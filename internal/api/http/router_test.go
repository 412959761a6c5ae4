package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/starbite-api/internal/api/http/handlers"
	"github.com/spec-kit/starbite-api/internal/auth"
	"github.com/spec-kit/starbite-api/internal/domain"
	"github.com/spec-kit/starbite-api/internal/observability"
	"github.com/spec-kit/starbite-api/internal/service"
	"github.com/spec-kit/starbite-api/internal/storage"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

const testRestaurantID = "9b2f6a52-5c1e-4d39-9f5e-2a4c1b7e8d10"

type stubAuth struct {
	issuer *auth.Issuer
}

func (s *stubAuth) Register(_ context.Context, in service.RegisterInput) (*domain.User, error) {
	if in.Email == "taken@example.com" {
		return nil, apperrors.NewConflict("email already registered", nil)
	}
	return &domain.User{ID: "user-42", Name: in.Name, Email: in.Email, PasswordHash: "secret-hash"}, nil
}

func (s *stubAuth) Login(_ context.Context, email, password string) (*domain.User, auth.TokenPair, error) {
	if password != "correct horse" {
		return nil, auth.TokenPair{}, service.ErrInvalidCredentials
	}
	pair, err := s.issuer.Issue("user-42")
	return &domain.User{ID: "user-42", Email: email}, pair, err
}

func (s *stubAuth) Refresh(subject string) (auth.Credential, error) {
	return s.issuer.IssueAccess(subject)
}

type stubRestaurants struct {
	mu        sync.Mutex
	lastQuery domain.GeoQuery
	created   []domain.NewRestaurant
	images    []storage.Image
	actor     string
}

func (s *stubRestaurants) Create(_ context.Context, actorID string, r domain.NewRestaurant, images []storage.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range images {
		data, _ := io.ReadAll(images[i].Content)
		images[i].Content = bytes.NewReader(data)
	}
	s.actor = actorID
	s.created = append(s.created, r)
	s.images = images
	return testRestaurantID, nil
}

func (s *stubRestaurants) Get(_ context.Context, id string) (*domain.Restaurant, error) {
	if id != testRestaurantID {
		return nil, apperrors.NewNotFound("restaurant", nil)
	}
	return &domain.Restaurant{ID: id, Name: "Pho 99", Rating: 4.25}, nil
}

func (s *stubRestaurants) Search(_ context.Context, q domain.GeoQuery) ([]domain.RestaurantPreview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = q
	return []domain.RestaurantPreview{{ID: testRestaurantID, Name: "Pho 99"}}, nil
}

type stubReviews struct {
	lastPatch domain.ReviewPatch
	actor     string
}

func (s *stubReviews) Create(_ context.Context, actorID string, _ domain.NewReview, _ []storage.Image) (string, error) {
	s.actor = actorID
	return "review-1", nil
}

func (s *stubReviews) GetEditable(_ context.Context, actorID, _ string) (*domain.EditableReview, error) {
	if actorID != "user-42" {
		return nil, apperrors.NewNotFound("review", nil)
	}
	return &domain.EditableReview{Rating: 4}, nil
}

func (s *stubReviews) Update(_ context.Context, actorID string, patch domain.ReviewPatch) (*domain.PatchedReview, error) {
	s.actor = actorID
	s.lastPatch = patch
	return &domain.PatchedReview{Text: patch.Text, Rating: patch.Rating, EditedAt: time.Now()}, nil
}

type stubFeed struct{}

func (stubFeed) Home(context.Context) (*domain.HomeFeed, error) {
	return &domain.HomeFeed{}, nil
}

type stubProfile struct{}

func (stubProfile) Get(_ context.Context, userID string) (*domain.Profile, error) {
	return &domain.Profile{User: domain.User{ID: userID, Name: "Ada"}}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	app         *fiber.App
	codec       *auth.Codec
	issuer      *auth.Issuer
	restaurants *stubRestaurants
	reviews     *stubReviews
	metrics     *observability.Metrics
}

func newTestServer(t *testing.T, redisErr error) *testServer {
	t.Helper()
	keys, err := auth.NewSigningKeys("access-secret-for-tests", "refresh-secret-for-tests")
	if err != nil {
		t.Fatalf("signing keys: %v", err)
	}
	codec := auth.NewCodec(keys)
	issuer := auth.NewIssuer(codec)
	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	srv := &testServer{
		app:         fiber.New(),
		codec:       codec,
		issuer:      issuer,
		restaurants: &stubRestaurants{},
		reviews:     &stubReviews{},
		metrics:     metrics,
	}
	authSvc := &stubAuth{issuer: issuer}
	RegisterMiddlewares(srv.app, logger, metrics, MiddlewareConfig{Timeout: time.Second})
	RegisterRoutes(srv.app, RouteConfig{
		Health:       handlers.NewHealthHandler("starbite-api", "test", stubPinger{}, stubPinger{err: redisErr}),
		Users:        handlers.NewUsersHandler(authSvc, stubProfile{}),
		Auth:         handlers.NewAuthHandler(authSvc),
		Restaurants:  handlers.NewRestaurantsHandler(srv.restaurants),
		Reviews:      handlers.NewReviewsHandler(srv.reviews),
		Home:         handlers.NewHomeHandler(stubFeed{}),
		AccessGuard:  auth.NewAccessGuard(codec, metrics),
		RefreshGuard: auth.NewRefreshGuard(codec, metrics),
		Metrics:      metrics,
		Logger:       logger,
	})
	return srv
}

func (s *testServer) accessToken(t *testing.T) string {
	t.Helper()
	cred, err := s.issuer.IssueAccess("user-42")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	return cred.Token
}

type apiResponse struct {
	status int
	Data   json.RawMessage `json:"data"`
	Error  struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, req *nethttp.Request) apiResponse {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	var out apiResponse
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
	}
	out.status = resp.StatusCode
	return out
}

func jsonRequest(method, path, body, token string) *nethttp.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func TestRegisterValidatesPayload(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := srv.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/users", `{"name":"A","email":"not-an-email","password":"short"}`, ""))
	if resp.status != nethttp.StatusBadRequest || resp.Error.Code != apperrors.CodeValidationFailed {
		t.Fatalf("got %d/%s", resp.status, resp.Error.Code)
	}
	for _, field := range []string{"name", "email", "password"} {
		if _, ok := resp.Error.Details[field]; !ok {
			t.Fatalf("details missing %q: %v", field, resp.Error.Details)
		}
	}

	resp = srv.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/users", `{"name":"Ada","email":"ada@example.com","password":"correct horse"}`, ""))
	if resp.status != nethttp.StatusCreated {
		t.Fatalf("register status = %d", resp.status)
	}
	if strings.Contains(string(resp.Data), "secret-hash") {
		t.Fatalf("password hash leaked: %s", resp.Data)
	}

	resp = srv.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/users", `{"name":"Ada","email":"taken@example.com","password":"correct horse"}`, ""))
	if resp.status != nethttp.StatusConflict {
		t.Fatalf("duplicate status = %d", resp.status)
	}
}

func TestLoginAndRefreshFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := srv.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"wrong"}`, ""))
	if resp.status != nethttp.StatusUnauthorized || resp.Error.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("bad login = %d/%s", resp.status, resp.Error.Code)
	}

	resp = srv.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"correct horse"}`, ""))
	if resp.status != nethttp.StatusOK {
		t.Fatalf("login status = %d", resp.status)
	}
	var login struct {
		AccessToken struct {
			Token     string `json:"token"`
			Type      string `json:"type"`
			ExpiresAt int64  `json:"expiresAt"`
		} `json:"accessToken"`
		RefreshToken struct {
			Token string `json:"token"`
			Type  string `json:"type"`
		} `json:"refreshToken"`
	}
	if err := json.Unmarshal(resp.Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.AccessToken.Type != "access_token" || login.RefreshToken.Type != "refresh_token" {
		t.Fatalf("types = %q/%q", login.AccessToken.Type, login.RefreshToken.Type)
	}
	if login.AccessToken.ExpiresAt <= time.Now().Unix() {
		t.Fatalf("expiresAt = %d is not in the future", login.AccessToken.ExpiresAt)
	}

	resp = srv.do(t, jsonRequest(nethttp.MethodGet, "/api/v1/profile", "", login.AccessToken.Token))
	if resp.status != nethttp.StatusOK {
		t.Fatalf("profile status = %d", resp.status)
	}

	resp = srv.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/auth/token", `{"refreshToken":"`+login.RefreshToken.Token+`"}`, ""))
	if resp.status != nethttp.StatusOK {
		t.Fatalf("refresh status = %d (%s)", resp.status, resp.Error.Code)
	}
	var renewed struct {
		Token string `json:"token"`
		Type  string `json:"type"`
	}
	if err := json.Unmarshal(resp.Data, &renewed); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if renewed.Type != "access_token" {
		t.Fatalf("renewed type = %q", renewed.Type)
	}
	if subject, err := srv.codec.Verify(renewed.Token, auth.KindAccess); err != nil || subject != "user-42" {
		t.Fatalf("renewed token subject = %q, %v", subject, err)
	}

	resp = srv.do(t, jsonRequest(nethttp.MethodPost, "/api/v1/auth/token", `{"refreshToken":"`+login.AccessToken.Token+`"}`, ""))
	if resp.status != nethttp.StatusForbidden {
		t.Fatalf("access token used as refresh = %d", resp.status)
	}
}

func TestProtectedRoutesRequireAccessToken(t *testing.T) {
	srv := newTestServer(t, nil)
	routes := []struct{ method, path string }{
		{nethttp.MethodGet, "/api/v1/profile"},
		{nethttp.MethodPost, "/api/v1/restaurants"},
		{nethttp.MethodGet, "/api/v1/restaurants/" + testRestaurantID},
		{nethttp.MethodPost, "/api/v1/reviews"},
		{nethttp.MethodPatch, "/api/v1/reviews"},
		{nethttp.MethodGet, "/api/v1/edit/reviews/" + testRestaurantID},
	}
	for _, r := range routes {
		resp := srv.do(t, jsonRequest(r.method, r.path, "{}", ""))
		if resp.status != nethttp.StatusUnauthorized || resp.Error.Code != apperrors.CodeUnauthenticated {
			t.Fatalf("%s %s without token = %d/%s", r.method, r.path, resp.status, resp.Error.Code)
		}
		resp = srv.do(t, jsonRequest(r.method, r.path, "{}", "not-a-token"))
		if resp.status != nethttp.StatusForbidden || resp.Error.Code != apperrors.CodeForbidden {
			t.Fatalf("%s %s with garbage token = %d/%s", r.method, r.path, resp.status, resp.Error.Code)
		}
	}
}

func TestSearchParsesLocation(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := srv.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/v1/restaurants?loc=40.71&loc=-74.01&radius=1500", nil))
	if resp.status != nethttp.StatusOK {
		t.Fatalf("search status = %d", resp.status)
	}
	q := srv.restaurants.lastQuery
	if q.Latitude != 40.71 || q.Longitude != -74.01 || q.RadiusMeters != 1500 {
		t.Fatalf("query = %+v", q)
	}

	for _, path := range []string{
		"/api/v1/restaurants",
		"/api/v1/restaurants?loc=40.71",
		"/api/v1/restaurants?loc=north&loc=west",
		"/api/v1/restaurants?loc=1&loc=2&radius=far",
		"/api/v1/restaurants?loc=NaN&loc=NaN&radius=NaN",
		"/api/v1/restaurants?loc=40.71&loc=Inf",
		"/api/v1/restaurants?loc=1&loc=2&radius=NaN",
		"/api/v1/restaurants?loc=1&loc=2&radius=%2BInf",
	} {
		resp := srv.do(t, httptest.NewRequest(nethttp.MethodGet, path, nil))
		if resp.status != nethttp.StatusBadRequest {
			t.Fatalf("%s = %d, want 400", path, resp.status)
		}
	}
}

func TestRestaurantDetailValidatesID(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.accessToken(t)

	resp := srv.do(t, jsonRequest(nethttp.MethodGet, "/api/v1/restaurants/not-a-uuid", "", token))
	if resp.status != nethttp.StatusBadRequest {
		t.Fatalf("non-uuid = %d", resp.status)
	}
	resp = srv.do(t, jsonRequest(nethttp.MethodGet, "/api/v1/restaurants/"+testRestaurantID, "", token))
	if resp.status != nethttp.StatusOK || !strings.Contains(string(resp.Data), `"rating":4.25`) {
		t.Fatalf("detail = %d %s", resp.status, resp.Data)
	}
}

func TestCreateRestaurantMultipart(t *testing.T) {
	srv := newTestServer(t, nil)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range map[string]string{"name": "Pho 99", "address": "1 Main St", "lat": "47.6", "lng": "-122.3"} {
		_ = w.WriteField(k, v)
	}
	_ = w.WriteField("categories", "vietnamese")
	_ = w.WriteField("categories", "noodles")
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="images"; filename="front.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	_, _ = part.Write([]byte("png-bytes"))
	_ = w.Close()

	req := httptest.NewRequest(nethttp.MethodPost, "/api/v1/restaurants", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+srv.accessToken(t))

	resp := srv.do(t, req)
	if resp.status != nethttp.StatusCreated {
		t.Fatalf("create status = %d (%s %v)", resp.status, resp.Error.Code, resp.Error.Details)
	}
	if srv.restaurants.actor != "user-42" || len(srv.restaurants.created) != 1 {
		t.Fatalf("created = %+v by %q", srv.restaurants.created, srv.restaurants.actor)
	}
	got := srv.restaurants.created[0]
	if got.Name != "Pho 99" || got.Latitude != 47.6 || len(got.Categories) != 2 {
		t.Fatalf("restaurant = %+v", got)
	}
	if len(srv.restaurants.images) != 1 || srv.restaurants.images[0].ContentType != "image/png" {
		t.Fatalf("images = %+v", srv.restaurants.images)
	}
}

func TestUpdateReviewValidatesRating(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.accessToken(t)

	resp := srv.do(t, jsonRequest(nethttp.MethodPatch, "/api/v1/reviews", `{"id":"`+testRestaurantID+`","rating":7}`, token))
	if resp.status != nethttp.StatusBadRequest {
		t.Fatalf("rating 7 = %d", resp.status)
	}

	resp = srv.do(t, jsonRequest(nethttp.MethodPatch, "/api/v1/reviews", `{"id":"`+testRestaurantID+`","review":"better","rating":4.5}`, token))
	if resp.status != nethttp.StatusOK {
		t.Fatalf("patch = %d (%s)", resp.status, resp.Error.Code)
	}
	if srv.reviews.actor != "user-42" || srv.reviews.lastPatch.Rating != 4.5 || *srv.reviews.lastPatch.Text != "better" {
		t.Fatalf("patch = %+v by %q", srv.reviews.lastPatch, srv.reviews.actor)
	}
}

func TestUnknownRouteAndReadiness(t *testing.T) {
	srv := newTestServer(t, errors.New("redis down"))

	resp := srv.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/v1/nope", nil))
	if resp.status != nethttp.StatusNotFound || resp.Error.Code != apperrors.CodeNotFound {
		t.Fatalf("unknown route = %d/%s", resp.status, resp.Error.Code)
	}

	resp = srv.do(t, httptest.NewRequest(nethttp.MethodGet, "/health/ready", nil))
	if resp.status != nethttp.StatusServiceUnavailable {
		t.Fatalf("ready with redis down = %d", resp.status)
	}
	resp = srv.do(t, httptest.NewRequest(nethttp.MethodGet, "/health/live", nil))
	if resp.status != nethttp.StatusOK {
		t.Fatalf("live = %d", resp.status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.do(t, jsonRequest(nethttp.MethodGet, "/api/v1/profile", "", "garbage"))

	resp, err := srv.app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"starbite_http_requests_total", "starbite_auth_rejections_total"} {
		if !strings.Contains(string(raw), name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}
