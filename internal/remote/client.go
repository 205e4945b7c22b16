// Package remote talks to the external course/enrollment service. The
// service is treated as unreliable: every method returns an error on any
// transport failure or non-success status, and callers fall back to the
// local store.
package remote

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/domain/model"

	"github.com/go-resty/resty/v2"
)

type API interface {
	ListCourses(ctx context.Context, token, title, level string) ([]model.Course, error)
	GetCourse(ctx context.Context, token, id string) (*model.Course, error)
	CreateCourse(ctx context.Context, token string, course model.Course) (*model.Course, error)
	UpdateCourse(ctx context.Context, token, id string, update model.CourseUpdate) error
	DeleteCourse(ctx context.Context, token, id string) error
	Enroll(ctx context.Context, token, courseID string) error
	ListEnrollments(ctx context.Context, token string) ([]model.Enrollment, error)
	UpdateProgress(ctx context.Context, token, courseID string, progress int) error
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password, role string) error
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: client}
}

// request builds a request with the bearer token attached when present.
// An empty token simply omits the header; the remote side decides what
// that means.
func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func statusErr(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return fmt.Errorf("remote service returned %d: %s", resp.StatusCode(), resp.String())
}

func (c *Client) ListCourses(ctx context.Context, token, title, level string) ([]model.Course, error) {
	var courses []model.Course
	req := c.request(ctx, token).SetResult(&courses)
	if title != "" {
		req.SetQueryParam("title", title)
	}
	if level != "" {
		req.SetQueryParam("level", level)
	}
	resp, err := req.Get("/courses")
	if err != nil {
		return nil, fmt.Errorf("remote list courses: %w", err)
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) GetCourse(ctx context.Context, token, id string) (*model.Course, error) {
	var course model.Course
	resp, err := c.request(ctx, token).SetResult(&course).Get("/courses/" + id)
	if err != nil {
		return nil, fmt.Errorf("remote get course: %w", err)
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) CreateCourse(ctx context.Context, token string, course model.Course) (*model.Course, error) {
	var created model.Course
	resp, err := c.request(ctx, token).SetBody(course).SetResult(&created).Post("/courses")
	if err != nil {
		return nil, fmt.Errorf("remote create course: %w", err)
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("remote create course: response missing course id")
	}
	return &created, nil
}

func (c *Client) UpdateCourse(ctx context.Context, token, id string, update model.CourseUpdate) error {
	resp, err := c.request(ctx, token).SetBody(update).Put("/courses/" + id)
	if err != nil {
		return fmt.Errorf("remote update course: %w", err)
	}
	return statusErr(resp)
}

func (c *Client) DeleteCourse(ctx context.Context, token, id string) error {
	resp, err := c.request(ctx, token).Delete("/courses/" + id)
	if err != nil {
		return fmt.Errorf("remote delete course: %w", err)
	}
	return statusErr(resp)
}

func (c *Client) Enroll(ctx context.Context, token, courseID string) error {
	resp, err := c.request(ctx, token).
		SetBody(map[string]string{"courseId": courseID}).
		Post("/enrollments/enroll")
	if err != nil {
		return fmt.Errorf("remote enroll: %w", err)
	}
	return statusErr(resp)
}

func (c *Client) ListEnrollments(ctx context.Context, token string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	resp, err := c.request(ctx, token).SetResult(&enrollments).Get("/enrollments")
	if err != nil {
		return nil, fmt.Errorf("remote list enrollments: %w", err)
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (c *Client) UpdateProgress(ctx context.Context, token, courseID string, progress int) error {
	resp, err := c.request(ctx, token).
		SetBody(map[string]interface{}{"courseId": courseID, "progress": progress}).
		Put("/enrollments/progress")
	if err != nil {
		return fmt.Errorf("remote update progress: %w", err)
	}
	return statusErr(resp)
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var result struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}
	resp, err := c.request(ctx, "").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&result).
		Post("/auth/login")
	if err != nil {
		return "", fmt.Errorf("remote login: %w", err)
	}
	if err := statusErr(resp); err != nil {
		return "", err
	}
	return result.Token, nil
}

func (c *Client) Register(ctx context.Context, name, email, password, role string) error {
	resp, err := c.request(ctx, "").
		SetBody(map[string]string{"name": name, "email": email, "password": password, "role": role}).
		Post("/auth/register")
	if err != nil {
		return fmt.Errorf("remote register: %w", err)
	}
	return statusErr(resp)
}
