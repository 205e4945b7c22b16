package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"learnhub/internal/app/service"
	"learnhub/internal/common/security"
	"learnhub/internal/domain/model"
	"learnhub/internal/domain/repository"
	"learnhub/internal/platform/config"
	"learnhub/internal/platform/store"
)

var initOnce sync.Once

// deadRemote fails every call; the HTTP surface must stay fully usable
// on the local store alone.
type deadRemote struct{}

var errDown = errors.New("remote service unreachable")

func (deadRemote) ListCourses(context.Context, string, string, string) ([]model.Course, error) {
	return nil, errDown
}
func (deadRemote) GetCourse(context.Context, string, string) (*model.Course, error) {
	return nil, errDown
}
func (deadRemote) CreateCourse(context.Context, string, model.Course) (*model.Course, error) {
	return nil, errDown
}
func (deadRemote) UpdateCourse(context.Context, string, string, model.CourseUpdate) error {
	return errDown
}
func (deadRemote) DeleteCourse(context.Context, string, string) error { return errDown }
func (deadRemote) Enroll(context.Context, string, string) error       { return errDown }
func (deadRemote) ListEnrollments(context.Context, string) ([]model.Enrollment, error) {
	return nil, errDown
}
func (deadRemote) UpdateProgress(context.Context, string, string, int) error { return errDown }
func (deadRemote) Login(context.Context, string, string) (string, error)     { return "", errDown }
func (deadRemote) Register(context.Context, string, string, string, string) error {
	return errDown
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	initOnce.Do(func() {
		config.Load()
		security.InitJWT()
	})

	kv := store.NewMemory()
	identity := service.NewIdentityService(
		repository.NewKVUserRepository(kv, "lms"),
		repository.NewKVSessionRepository(kv, "lms"),
		deadRemote{},
	)
	catalog := service.NewCatalogService(
		repository.NewKVCourseRepository(kv, "lms"),
		repository.NewKVEnrollmentRepository(kv, "lms"),
		deadRemote{},
		identity,
	)
	if err := identity.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := catalog.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	server := httptest.NewServer(NewRouter(identity, catalog))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, token string, payload interface{}) *http.Response {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func loginAs(t *testing.T, server *httptest.Server, email, role string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/register", "", map[string]string{
		"name": "Test User", "email": email, "password": "s3cret-pass", "role": role,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "s3cret-pass",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned %d", resp.StatusCode)
	}
	var auth struct {
		Token string `json:"token"`
	}
	decode(t, resp, &auth)
	if auth.Token == "" {
		t.Fatal("login returned no token")
	}
	return auth.Token
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(t)
	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health returned %d", resp.StatusCode)
	}
}

func TestListCoursesWithFilters(t *testing.T) {
	server := newTestServer(t)

	var all []model.Course
	decode(t, doJSON(t, http.MethodGet, server.URL+"/api/v1/courses", "", nil), &all)
	if len(all) != 3 {
		t.Fatalf("expected 3 seeded courses, got %d", len(all))
	}

	var advanced []model.Course
	decode(t, doJSON(t, http.MethodGet, server.URL+"/api/v1/courses?level=Advanced", "", nil), &advanced)
	if len(advanced) != 1 || advanced[0].Level != model.LevelAdvanced {
		t.Fatalf("level filter returned %+v", advanced)
	}

	var sorted []model.Course
	decode(t, doJSON(t, http.MethodGet, server.URL+"/api/v1/courses?sort=price-low", "", nil), &sorted)
	if len(sorted) != 3 || sorted[0].Price > sorted[1].Price {
		t.Fatalf("sort returned %+v", sorted)
	}
}

func TestEnrollmentRoutesRequireAuth(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/enrollments/enroll", "", map[string]string{"courseId": "1"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated enroll returned %d", resp.StatusCode)
	}
}

func TestCourseMutationsAreAdminOnly(t *testing.T) {
	server := newTestServer(t)
	studentToken := loginAs(t, server, "student@example.com", "student")

	resp := doJSON(t, http.MethodDelete, server.URL+"/api/v1/courses/1", studentToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("student course delete returned %d", resp.StatusCode)
	}
}

func TestLearningFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)
	token := loginAs(t, server, "alice@example.com", "student")

	// Enroll in course 2.
	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/enrollments/enroll", token, map[string]string{"courseId": "2"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("enroll returned %d", resp.StatusCode)
	}

	// Enrolling again is a conflict.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/enrollments/enroll", token, map[string]string{"courseId": "2"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate enroll returned %d", resp.StatusCode)
	}

	// Progress out of range is the caller's fault.
	resp = doJSON(t, http.MethodPut, server.URL+"/api/v1/enrollments/progress", token, map[string]interface{}{
		"courseId": "2", "progress": 150,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("out-of-range progress returned %d", resp.StatusCode)
	}

	// Completing the course reports completion.
	resp = doJSON(t, http.MethodPut, server.URL+"/api/v1/enrollments/progress", token, map[string]interface{}{
		"courseId": "2", "progress": 100,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("progress update returned %d", resp.StatusCode)
	}
	var progress struct {
		Completed bool `json:"completed"`
	}
	decode(t, resp, &progress)
	if !progress.Completed {
		t.Fatal("progress 100 not reported as completed")
	}

	var summary []model.CourseProgress
	decode(t, doJSON(t, http.MethodGet, server.URL+"/api/v1/enrollments/courses", token, nil), &summary)
	if len(summary) != 1 || summary[0].Course.ID != "2" || summary[0].Progress != 100 {
		t.Fatalf("enrolled course summary = %+v", summary)
	}
}

func TestAdminCourseCRUDOverHTTP(t *testing.T) {
	server := newTestServer(t)
	adminToken := loginAs(t, server, "admin@example.com", "admin")

	// Create
	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/courses", adminToken, map[string]interface{}{
		"title": "Go Fundamentals", "level": "Beginner", "price": 29.99, "instructor": "Rob",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("course create returned %d", resp.StatusCode)
	}
	var created model.Course
	decode(t, resp, &created)
	if created.ID == "" || created.Slug != "go-fundamentals" {
		t.Fatalf("created course = %+v", created)
	}

	// Empty title is a validation failure.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/courses", adminToken, map[string]interface{}{
		"title": "", "level": "Beginner",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty-title create returned %d", resp.StatusCode)
	}

	// Partial update
	resp = doJSON(t, http.MethodPut, server.URL+"/api/v1/courses/"+created.ID, adminToken, map[string]interface{}{
		"price": 19.99,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("course update returned %d", resp.StatusCode)
	}
	var updated model.Course
	decode(t, resp, &updated)
	if updated.Price != 19.99 || updated.Title != "Go Fundamentals" {
		t.Fatalf("updated course = %+v", updated)
	}

	// Delete
	resp = doJSON(t, http.MethodDelete, server.URL+"/api/v1/courses/"+created.ID, adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("course delete returned %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/courses/"+created.ID, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted course fetch returned %d", resp.StatusCode)
	}
}
