package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"laundrypoint/internal/models"
)

// Client talks to the Google Places web API for address autocomplete and
// place resolution. Searches are biased to India, matching the storefront.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Places client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    "https://maps.googleapis.com/maps/api/place",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type predictionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Predictions  []struct {
		PlaceID              string `json:"place_id"`
		Description          string `json:"description"`
		StructuredFormatting struct {
			MainText      string `json:"main_text"`
			SecondaryText string `json:"secondary_text"`
		} `json:"structured_formatting"`
	} `json:"predictions"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		FormattedAddress string `json:"formatted_address"`
		Name             string `json:"name"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"result"`
}

// Predict returns autocomplete suggestions for the typed text.
func (c *Client) Predict(ctx context.Context, input string) ([]models.PlacePrediction, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("places API key not configured")
	}

	query := url.Values{}
	query.Set("input", input)
	query.Set("key", c.apiKey)
	query.Set("language", "en")
	query.Set("components", "country:in")

	var resp predictionsResponse
	if err := c.getJSON(ctx, "/autocomplete/json?"+query.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places autocomplete failed: %s %s", resp.Status, resp.ErrorMessage)
	}

	predictions := make([]models.PlacePrediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		label := p.StructuredFormatting.MainText
		if label == "" {
			label = p.Description
		}
		predictions = append(predictions, models.PlacePrediction{
			PlaceID:  p.PlaceID,
			Label:    label,
			Sublabel: p.StructuredFormatting.SecondaryText,
		})
	}
	return predictions, nil
}

// Resolve looks up the full address and coordinates of a predicted place.
func (c *Client) Resolve(ctx context.Context, placeID string) (*models.SavedLocation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("places API key not configured")
	}

	query := url.Values{}
	query.Set("place_id", placeID)
	query.Set("key", c.apiKey)
	query.Set("fields", "geometry,formatted_address,name")

	var resp detailsResponse
	if err := c.getJSON(ctx, "/details/json?"+query.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("place details failed: %s %s", resp.Status, resp.ErrorMessage)
	}

	address := resp.Result.FormattedAddress
	if address == "" {
		address = resp.Result.Name
	}
	return &models.SavedLocation{
		Address:   address,
		Latitude:  resp.Result.Geometry.Location.Lat,
		Longitude: resp.Result.Geometry.Location.Lng,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build places request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places request failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode places response: %w", err)
	}
	return nil
}
