package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/ideafactory/ideas/internal/model"
)

func ideaKey(id int64) string { return "idea:" + strconv.FormatInt(id, 10) }

func ideaPath(id int64) string { return "/ideas/" + strconv.FormatInt(id, 10) }

func formatAmount(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// --- Public catalog ---

// ListIdeas returns every idea in the catalog. It satisfies catalog.Fetcher.
func (c *HTTPClient) ListIdeas(ctx context.Context) ([]model.Idea, error) {
	var ideas []model.Idea
	if err := c.doJSON(ctx, http.MethodGet, "/ideas", nil, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

func (c *HTTPClient) ListIdeasPage(ctx context.Context, page, size int) (*model.IdeaPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if size <= 0 {
		size = DefaultPageSize
	}
	q.Set("size", strconv.Itoa(size))

	var p model.IdeaPage
	if err := c.doJSON(ctx, http.MethodGet, "/ideas/paginated?"+q.Encode(), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetIdea(ctx context.Context, id int64) (*model.Idea, error) {
	idea, err := cached(c, ideaKey(id), func() (model.Idea, error) {
		var idea model.Idea
		err := c.doJSON(ctx, http.MethodGet, ideaPath(id), nil, &idea)
		return idea, err
	})
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

// FilterIdeas asks the server to filter the catalog.
func (c *HTTPClient) FilterIdeas(ctx context.Context, req *IdeaQuery) ([]model.Idea, error) {
	q := url.Values{}
	if req.Category != "" {
		q.Set("category", req.Category)
	}
	if req.Sector != "" {
		q.Set("sector", req.Sector)
	}
	if req.DifficultyLevel != "" {
		q.Set("difficultyLevel", req.DifficultyLevel)
	}
	if req.Location != "" {
		q.Set("location", req.Location)
	}
	if req.MaxInvestment > 0 {
		q.Set("maxInvestment", formatAmount(req.MaxInvestment))
	}

	path := "/ideas/filter"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var ideas []model.Idea
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// IdeasBy returns the ideas whose dimension equals value.
func (c *HTTPClient) IdeasBy(ctx context.Context, dim Dimension, value string) ([]model.Idea, error) {
	if !dim.IsValid() {
		return nil, fmt.Errorf("unknown lookup dimension %q", dim)
	}
	var ideas []model.Idea
	path := "/ideas/" + string(dim) + "/" + url.PathEscape(value)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// IdeasByInvestment returns ideas whose investment lies in [lo, hi]. A zero
// bound is left open.
func (c *HTTPClient) IdeasByInvestment(ctx context.Context, lo, hi float64) ([]model.Idea, error) {
	q := url.Values{}
	if lo > 0 {
		q.Set("minInvestment", formatAmount(lo))
	}
	if hi > 0 {
		q.Set("maxInvestment", formatAmount(hi))
	}
	path := "/ideas/investment"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var ideas []model.Idea
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// --- Option lists ---

func (c *HTTPClient) stringList(ctx context.Context, path string) ([]string, error) {
	list, err := cached(c, "list:"+path, func() ([]string, error) {
		var list []string
		err := c.doJSON(ctx, http.MethodGet, path, nil, &list)
		return list, err
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(list), nil
}

// FilterOptions fetches the four public option lists concurrently.
func (c *HTTPClient) FilterOptions(ctx context.Context) (*model.PublicFilterOptions, error) {
	var opts model.PublicFilterOptions
	g, ctx := errgroup.WithContext(ctx)
	for path, dst := range map[string]*[]string{
		"/categories":        &opts.Categories,
		"/sectors":           &opts.Sectors,
		"/difficulty-levels": &opts.DifficultyLevels,
		"/locations":         &opts.Locations,
	} {
		g.Go(func() error {
			list, err := c.stringList(ctx, path)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", path, err)
			}
			*dst = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *HTTPClient) MainCategories(ctx context.Context) ([]string, error) {
	return c.stringList(ctx, "/main-categories")
}

func (c *HTTPClient) SubCategories(ctx context.Context, mainCategory string) ([]string, error) {
	q := url.Values{}
	q.Set("mainCategory", mainCategory)
	return c.stringList(ctx, "/sub-categories?"+q.Encode())
}

func (c *HTTPClient) CategoryHierarchy(ctx context.Context) (map[string][]string, error) {
	var h map[string][]string
	if err := c.doJSON(ctx, http.MethodGet, "/category-hierarchy", nil, &h); err != nil {
		return nil, err
	}
	return h, nil
}

// --- Idea CRUD ---

func (c *HTTPClient) CreateIdea(ctx context.Context, idea *model.Idea) (*model.Idea, error) {
	var created model.Idea
	if err := c.doJSON(ctx, http.MethodPost, "/ideas", idea, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SubmitIdea posts a proposal from the submission form. It satisfies
// submission.Submitter.
func (c *HTTPClient) SubmitIdea(ctx context.Context, p *model.IdeaProposal) (*model.Idea, error) {
	var created model.Idea
	if err := c.doJSON(ctx, http.MethodPost, "/ideas", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) UpdateIdea(ctx context.Context, id int64, idea *model.Idea) (*model.Idea, error) {
	var updated model.Idea
	if err := c.doJSON(ctx, http.MethodPut, ideaPath(id), idea, &updated); err != nil {
		return nil, err
	}
	c.forget(ideaKey(id))
	return &updated, nil
}

func (c *HTTPClient) DeleteIdea(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, ideaPath(id), nil, nil); err != nil {
		return err
	}
	c.forget(ideaKey(id))
	return nil
}
