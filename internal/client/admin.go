package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/ideafactory/ideas/internal/model"
)

// --- Admin ---

// AdminLogin signs in an administrator by username or email.
func (c *HTTPClient) AdminLogin(ctx context.Context, usernameOrEmail, password string) (*model.AdminLoginResponse, error) {
	body := map[string]string{"usernameOrEmail": usernameOrEmail, "password": password}
	var resp model.AdminLoginResponse
	if err := c.doAdmin(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, authError(err, model.AuthInvalidCredentials)
	}
	if resp.Token == "" {
		return nil, &AuthError{Code: model.AuthInvalidCredentials, Message: resp.Message}
	}
	return &resp, nil
}

// ValidateToken reports whether the client's token is accepted by the admin
// API. A rejected token is not an error.
func (c *HTTPClient) ValidateToken(ctx context.Context) (bool, error) {
	var resp messageResponse
	err := c.doAdmin(ctx, http.MethodPost, "/auth/validate", nil, &resp)
	if err != nil {
		if ae, ok := authError(err, model.AuthTokenInvalid).(*AuthError); ok && ae.StatusCode < 500 {
			return false, nil
		}
		return false, err
	}
	return resp.Success != nil && *resp.Success, nil
}

// ListAdminIdeas returns one page of the admin listing, including inactive
// ideas.
func (c *HTTPClient) ListAdminIdeas(ctx context.Context, req *AdminIdeaQuery) (*model.IdeaPage, error) {
	size, sortBy, sortDir := req.Size, req.SortBy, req.SortDir
	if size <= 0 {
		size = DefaultPageSize
	}
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	if sortDir == "" {
		sortDir = DefaultSortDir
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortBy", sortBy)
	q.Set("sortDir", sortDir)
	for key, v := range map[string]string{
		"search":           req.Search,
		"category":         req.Category,
		"sector":           req.Sector,
		"difficultyLevel":  req.DifficultyLevel,
		"location":         req.Location,
		"targetAudience":   req.TargetAudience,
		"specialAdvantage": req.SpecialAdvantage,
	} {
		if v != "" {
			q.Set(key, v)
		}
	}
	if req.MaxInvestment > 0 {
		q.Set("maxInvestment", formatAmount(req.MaxInvestment))
	}

	var page model.IdeaPage
	if err := c.doAdmin(ctx, http.MethodGet, "/admin/ideas?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) AdminUpdateIdea(ctx context.Context, id int64, idea *model.Idea) (*model.Idea, error) {
	var updated model.Idea
	if err := c.doAdmin(ctx, http.MethodPut, "/admin"+ideaPath(id), idea, &updated); err != nil {
		return nil, err
	}
	c.forget(ideaKey(id))
	return &updated, nil
}

func (c *HTTPClient) AdminDeleteIdea(ctx context.Context, id int64) error {
	if err := c.doAdmin(ctx, http.MethodDelete, "/admin"+ideaPath(id), nil, nil); err != nil {
		return err
	}
	c.forget(ideaKey(id))
	return nil
}

// ToggleIdeaStatus flips an idea between active and inactive and returns the
// updated idea.
func (c *HTTPClient) ToggleIdeaStatus(ctx context.Context, id int64) (*model.Idea, error) {
	var idea model.Idea
	if err := c.doAdmin(ctx, http.MethodPut, "/admin"+ideaPath(id)+"/toggle-status", nil, &idea); err != nil {
		return nil, err
	}
	c.forget(ideaKey(id))
	return &idea, nil
}

// UploadIdeas sends a spreadsheet of ideas as the multipart field "file".
func (c *HTTPClient) UploadIdeas(ctx context.Context, filename string, r io.Reader) (*model.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.adminURL+"/admin/upload-ideas", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result model.UploadResult
	if err := c.send(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) AdminFilterOptions(ctx context.Context) (*model.AdminFilterOptions, error) {
	opts, err := cached(c, "admin:filter-options", func() (model.AdminFilterOptions, error) {
		var opts model.AdminFilterOptions
		err := c.doAdmin(ctx, http.MethodGet, "/admin/filter-options", nil, &opts)
		return opts, err
	})
	if err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *HTTPClient) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.doAdmin(ctx, http.MethodGet, "/admin/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *HTTPClient) UploadHistory(ctx context.Context) ([]model.UploadHistory, error) {
	var history []model.UploadHistory
	if err := c.doAdmin(ctx, http.MethodGet, "/admin/upload-history", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *HTTPClient) UploadHistoryStats(ctx context.Context) (*model.UploadHistoryStats, error) {
	var stats model.UploadHistoryStats
	if err := c.doAdmin(ctx, http.MethodGet, "/admin/upload-history/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DeleteUploadBatch removes an upload and every idea it created.
func (c *HTTPClient) DeleteUploadBatch(ctx context.Context, batchID string) (*model.DeleteUploadResult, error) {
	var resp model.DeleteUploadResult
	if err := c.doAdmin(ctx, http.MethodDelete, "/admin/upload-history/"+url.PathEscape(batchID), nil, &resp); err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Flush()
	}
	return &resp, nil
}
