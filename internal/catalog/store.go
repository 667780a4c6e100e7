package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/ideafactory/ideas/internal/events"
	"github.com/ideafactory/ideas/internal/model"
)

var (
	// ErrNotFound is returned when an item ID is not in the loaded catalog.
	ErrNotFound = errors.New("catalog: item not found")
	// ErrSuperseded is returned by a Load whose result was discarded because
	// a newer Load started or the store was closed.
	ErrSuperseded = errors.New("catalog: load superseded")
)

// Fetcher retrieves the full remote catalog.
type Fetcher interface {
	ListIdeas(ctx context.Context) ([]model.Idea, error)
}

// FavoriteStore persists favorite flags across loads.
type FavoriteStore interface {
	Favorites() (map[string]bool, error)
	SetFavorite(id string, favorite bool) error
}

// State is the load state of the store.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Option configures a Store.
type Option func(*Store)

// WithScores sets the source used for records that lack scores.
func WithScores(src ScoreSource) Option {
	return func(s *Store) { s.scores = src }
}

// WithFavorites sets where favorite flags are persisted.
func WithFavorites(f FavoriteStore) Option {
	return func(s *Store) { s.favorites = f }
}

// WithPublisher sets the publisher notified of favorite toggles.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store holds the loaded catalog, the active filter criteria, and a memoized
// filtered view. It is safe for concurrent use.
type Store struct {
	fetcher   Fetcher
	scores    ScoreSource
	favorites FavoriteStore
	publisher events.Publisher
	logger    *zap.Logger

	mu       sync.Mutex
	items    []model.CatalogItem
	criteria model.FilterCriteria
	state    State
	loadErr  error

	// Generations advance whenever items or criteria change; the view is
	// valid only for the generations it was computed at.
	itemsGen    uint64
	criteriaGen uint64
	view        filteredView

	loadSeq    uint64
	cancelLoad context.CancelFunc
	// settled is the state before the in-flight load began.
	settled    State
	closed     bool
}

type filteredView struct {
	valid       bool
	itemsGen    uint64
	criteriaGen uint64
	items       []model.CatalogItem
}

// NewStore creates an empty store that loads from f.
func NewStore(f Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher:   f,
		scores:    MissingScores{},
		publisher: &events.NoopPublisher{},
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load fetches the catalog and replaces the in-memory list. Starting a new
// Load cancels one already in flight. On failure the list is cleared and the
// store enters StateError; there is no retry.
func (s *Store) Load(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	s.loadSeq++
	seq := s.loadSeq
	s.cancelLoad = cancel
	if s.state != StateLoading {
		s.settled = s.state
	}
	s.state = StateLoading
	s.mu.Unlock()

	ideas, err := s.fetcher.ListIdeas(ctx)

	var items []model.CatalogItem
	if err == nil {
		items = s.transform(ideas)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq {
		return ErrSuperseded
	}
	if s.closed {
		// The newest load was cut short by Close; report what the store
		// held before it started.
		s.state = s.settled
		return ErrSuperseded
	}
	s.cancelLoad = nil
	s.itemsGen++

	if err != nil {
		s.items = nil
		s.state = StateError
		s.loadErr = err
		s.logger.Warn("catalog load failed", zap.Error(err))
		return fmt.Errorf("loading catalog: %w", err)
	}

	s.items = items
	s.state = StateReady
	s.loadErr = nil
	s.logger.Debug("catalog loaded", zap.Int("items", len(items)))
	return nil
}

func (s *Store) transform(ideas []model.Idea) []model.CatalogItem {
	var favs map[string]bool
	if s.favorites != nil {
		f, err := s.favorites.Favorites()
		if err != nil {
			s.logger.Warn("reading favorites", zap.Error(err))
		}
		favs = f
	}

	items := make([]model.CatalogItem, 0, len(ideas))
	synthetic := 0
	for i := range ideas {
		idea := &ideas[i]
		if !idea.Active() {
			continue
		}
		if !idea.HasScores() && s.scores.Placeholder() {
			synthetic++
		}
		it := FromIdea(idea, s.scores)
		it.IsFavorite = favs[it.ID]
		items = append(items, it)
	}
	if synthetic > 0 {
		s.logger.Warn("catalog scores are placeholders, not server data",
			zap.Int("items", synthetic))
	}
	return items
}

// State returns the load state and, in StateError, the load error.
func (s *Store) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.loadErr
}

// Items returns a copy of the full loaded catalog.
func (s *Store) Items() []model.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get returns the item with the given ID.
func (s *Store) Get(id string) (model.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.CatalogItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.items[i], nil
}

// Criteria returns the active filter criteria.
func (s *Store) Criteria() model.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// SetFilters replaces the active criteria. Criteria are not validated here;
// callers validate where they build them.
func (s *Store) SetFilters(c model.FilterCriteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == s.criteria {
		return
	}
	s.criteria = c
	s.criteriaGen++
}

// ClearFilters resets the criteria to empty.
func (s *Store) ClearFilters() {
	s.SetFilters(model.FilterCriteria{})
}

// Filtered returns the items matching the active criteria, in load order.
// The result is recomputed only when the items or criteria changed since the
// previous call. The returned slice is shared and must not be modified.
func (s *Store) Filtered() []model.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := &s.view
	if v.valid && v.itemsGen == s.itemsGen && v.criteriaGen == s.criteriaGen {
		return v.items
	}
	v.items = Filter(s.items, s.criteria)
	v.itemsGen = s.itemsGen
	v.criteriaGen = s.criteriaGen
	v.valid = true
	return v.items
}

// ToggleFavorite flips the favorite flag of the item with the given ID,
// persists it, and publishes a FavoriteToggled event. It returns the new
// flag. If persisting fails the flip is undone.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	fav := !s.items[i].IsFavorite
	s.setFavoriteLocked(i, fav)
	s.mu.Unlock()

	if s.favorites != nil {
		if err := s.favorites.SetFavorite(id, fav); err != nil {
			s.mu.Lock()
			if j := s.indexOf(id); j >= 0 {
				s.setFavoriteLocked(j, !fav)
			}
			s.mu.Unlock()
			return !fav, fmt.Errorf("saving favorite %s: %w", id, err)
		}
	}

	if err := s.publisher.Publish(ctx, events.TopicFavoriteToggled, events.FavoriteToggled{
		IdeaID:   id,
		Favorite: fav,
	}); err != nil {
		s.logger.Warn("publishing favorite event", zap.String("id", id), zap.Error(err))
	}
	return fav, nil
}

// Favorites returns the loaded items currently marked favorite.
func (s *Store) Favorites() []model.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CatalogItem
	for _, it := range s.items {
		if it.IsFavorite {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) setFavoriteLocked(i int, fav bool) {
	s.items[i].IsFavorite = fav
	s.itemsGen++
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(it model.CatalogItem) bool { return it.ID == id })
}

// Close cancels any in-flight Load. Later Loads return ErrSuperseded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
}
