package services

import (
	"context"
	"sync"
	"time"

	"laundrypoint/internal/models"
	"laundrypoint/internal/repositories"
)

// PlacesClient is the place-search capability the location picker drives.
type PlacesClient interface {
	Predict(ctx context.Context, input string) ([]models.PlacePrediction, error)
	Resolve(ctx context.Context, placeID string) (*models.SavedLocation, error)
}

// LocationService wraps place search and the recent-locations cache.
type LocationService struct {
	places   PlacesClient
	recents  repositories.LocationRepository
	debounce time.Duration
}

// NewLocationService creates a new LocationService with the picker's
// standard 500ms keystroke debounce.
func NewLocationService(places PlacesClient, recents repositories.LocationRepository) *LocationService {
	return &LocationService{
		places:   places,
		recents:  recents,
		debounce: 500 * time.Millisecond,
	}
}

// Predict runs one autocomplete query immediately (no debounce).
func (s *LocationService) Predict(ctx context.Context, input string) ([]models.PlacePrediction, error) {
	if len(input) < 2 {
		return nil, nil
	}
	return s.places.Predict(ctx, input)
}

// SelectPlace resolves a prediction, records it in the recent cache, and
// returns a pickup selection for the confirm screen to consume once.
func (s *LocationService) SelectPlace(ctx context.Context, placeID string) (*models.PickupSelection, error) {
	location, err := s.places.Resolve(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if err := s.recents.SaveRecent(ctx, *location); err != nil {
		return nil, err
	}
	return &models.PickupSelection{
		Address: location.Address,
		Coordinates: &models.Coordinates{
			Latitude:  location.Latitude,
			Longitude: location.Longitude,
		},
	}, nil
}

// Recent returns the recently selected pickup locations, most recent
// first.
func (s *LocationService) Recent(ctx context.Context) ([]models.SavedLocation, error) {
	return s.recents.Recent(ctx)
}

// NewSearcher creates a debounced searcher delivering results to fn.
func (s *LocationService) NewSearcher(fn func([]models.PlacePrediction, error)) *Searcher {
	return &Searcher{svc: s, deliver: fn}
}

// Searcher debounces keystrokes against the place-search capability.
// Results are applied last-write-wins by request sequence number: a
// completion belonging to a superseded keystroke is dropped even if it
// arrives after the newer one.
type Searcher struct {
	svc     *LocationService
	deliver func([]models.PlacePrediction, error)

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	closed bool
}

// Search schedules a prediction request for the typed text, superseding
// any pending or in-flight request. Queries shorter than two characters
// clear the suggestions immediately.
func (s *Searcher) Search(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len(query) < 2 {
		s.mu.Unlock()
		s.deliver(nil, nil)
		return
	}
	s.timer = time.AfterFunc(s.svc.debounce, func() {
		predictions, err := s.svc.places.Predict(context.Background(), query)
		s.mu.Lock()
		stale := s.closed || seq != s.seq
		s.mu.Unlock()
		if stale {
			return
		}
		s.deliver(predictions, err)
	})
	s.mu.Unlock()
}

// Close cancels any pending request. Further Search calls are ignored;
// nothing is delivered after Close returns, so an unmounted screen is
// never updated.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
