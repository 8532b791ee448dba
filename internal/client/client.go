// Package client wraps the resume REST endpoints for the CLI, attaching
// the bearer header from the session store to every authenticated call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/serh11pashkov/resumebuilder/internal/dto"
	"github.com/serh11pashkov/resumebuilder/internal/session"
)

// Client calls the resume backend.
type Client struct {
	baseURL  string
	sessions *session.Store
	httpc    *http.Client
}

// New returns a Client bound to the backend at baseURL and the given
// session store.
func New(baseURL string, sessions *session.Store) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Me returns the current user's profile.
func (c *Client) Me(ctx context.Context) (dto.UserResponse, error) {
	var out dto.UserResponse
	err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &out)
	return out, err
}

// ChangePassword replaces the current user's password after the server
// verifies the current one.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPut, "/api/users/me/password", dto.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}, nil)
}

// MyResumes lists the resumes owned by the current identity.
func (c *Client) MyResumes(ctx context.Context) ([]dto.ResumeResponse, error) {
	id := c.sessions.Current()
	if id == nil {
		return nil, fmt.Errorf("not logged in")
	}
	var out dto.ListResumesResponse
	err := c.do(ctx, http.MethodGet, "/api/resumes/user/"+id.PrimaryID.String(), nil, &out)
	return out.Items, err
}

// AllResumes lists every resume; the server requires ROLE_ADMIN.
func (c *Client) AllResumes(ctx context.Context) ([]dto.ResumeResponse, error) {
	var out dto.ListResumesResponse
	err := c.do(ctx, http.MethodGet, "/api/resumes", nil, &out)
	return out.Items, err
}

// Resume fetches one resume by ID.
func (c *Client) Resume(ctx context.Context, id int64) (dto.ResumeResponse, error) {
	var out dto.ResumeResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/resumes/%d", id), nil, &out)
	return out, err
}

// CreateResume stores a new resume.
func (c *Client) CreateResume(ctx context.Context, req dto.CreateResumeRequest) (dto.ResumeResponse, error) {
	var out dto.ResumeResponse
	err := c.do(ctx, http.MethodPost, "/api/resumes", req, &out)
	return out, err
}

// UpdateResume replaces a resume's content.
func (c *Client) UpdateResume(ctx context.Context, id int64, req dto.UpdateResumeRequest) (dto.ResumeResponse, error) {
	var out dto.ResumeResponse
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/resumes/%d", id), req, &out)
	return out, err
}

// DeleteResume removes a resume.
func (c *Client) DeleteResume(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/resumes/%d", id), nil, nil)
}

// Publish puts the resume in the public gallery.
func (c *Client) Publish(ctx context.Context, id int64) (dto.ResumeResponse, error) {
	var out dto.ResumeResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/resumes/%d/publish", id), nil, &out)
	return out, err
}

// Unpublish removes the resume from the public gallery.
func (c *Client) Unpublish(ctx context.Context, id int64) (dto.ResumeResponse, error) {
	var out dto.ResumeResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/resumes/%d/unpublish", id), nil, &out)
	return out, err
}

// Gallery lists all published resumes; no authentication needed.
func (c *Client) Gallery(ctx context.Context) ([]dto.ResumeResponse, error) {
	var out dto.ListResumesResponse
	err := c.do(ctx, http.MethodGet, "/api/public/resumes", nil, &out)
	return out.Items, err
}

// PublicResume fetches a published resume by its URL slug.
func (c *Client) PublicResume(ctx context.Context, url string) (dto.ResumeResponse, error) {
	var out dto.ResumeResponse
	err := c.do(ctx, http.MethodGet, "/api/public/resumes/"+url, nil, &out)
	return out, err
}

// ExportPDF downloads the PDF rendition of a resume.
func (c *Client) ExportPDF(ctx context.Context, id int64) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, fmt.Sprintf("/api/resumes/%d/pdf", id))
}

// Signout revokes the current token server-side. Best effort: the local
// identity is dropped by the session store regardless.
func (c *Client) Signout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	data, err := c.roundTrip(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *Client) doRaw(ctx context.Context, method, path string) ([]byte, error) {
	return c.roundTrip(ctx, method, path, nil)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range c.sessions.Header() {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp.StatusCode, data)
	}
	return data, nil
}

func apiError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return fmt.Errorf("server: %s (status %d)", payload.Message, status)
		}
		if payload.Error != "" {
			return fmt.Errorf("server: %s (status %d)", payload.Error, status)
		}
	}
	return fmt.Errorf("server returned status %d", status)
}
