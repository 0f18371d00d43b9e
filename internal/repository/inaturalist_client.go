package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"insect-guide-server/internal/domain"
	apperrors "insect-guide-server/pkg/errors"
)

const (
	// iNaturalist taxon id for class Insecta. Every search is pinned to it
	// so the API never returns plants or birds to the app.
	insectaTaxonID = 47158

	// Preferred place for common names and conservation status: Panama.
	defaultPlaceID = 7043

	userAgent = "insect-guide-server/1.0"
)

// INaturalistClient implements domain.INaturalistClient over the public
// iNaturalist HTTP API.
type INaturalistClient struct {
	baseURL    string
	httpClient *http.Client
	logger     domain.Logger
}

// NewINaturalistClient creates a new iNaturalist API client
func NewINaturalistClient(config domain.Config, logger domain.Logger) domain.INaturalistClient {
	return &INaturalistClient{
		baseURL:    strings.TrimSuffix(config.GetINaturalistBaseURL(), "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type taxaResponse struct {
	TotalResults int            `json:"total_results"`
	Results      []domain.Taxon `json:"results"`
}

type observationsResponse struct {
	TotalResults int `json:"total_results"`
	Results      []struct {
		Taxon *domain.Taxon `json:"taxon"`
	} `json:"results"`
}

// SearchTaxa searches insect taxa by free text
func (c *INaturalistClient) SearchTaxa(ctx context.Context, query domain.ObservationQuery) (*domain.TaxonSearchResult, error) {
	params := url.Values{}
	params.Set("q", query.Query)
	params.Set("per_page", strconv.Itoa(query.PerPage))
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("taxon_id", strconv.Itoa(insectaTaxonID))
	params.Set("locale", query.Locale)
	params.Set("preferred_place_id", strconv.Itoa(defaultPlaceID))
	params.Set("order_by", "observations_count")
	params.Set("is_active", "true")
	params.Set("rank", "species,subspecies")

	var payload taxaResponse
	if err := c.get(ctx, "/taxa", params, &payload); err != nil {
		return nil, err
	}

	return &domain.TaxonSearchResult{
		TotalResults: payload.TotalResults,
		Page:         query.Page,
		PerPage:      query.PerPage,
		Results:      payload.Results,
	}, nil
}

// GetTaxon fetches detailed information about one taxon
func (c *INaturalistClient) GetTaxon(ctx context.Context, taxonID int, locale string) (*domain.Taxon, error) {
	params := url.Values{}
	params.Set("locale", locale)
	params.Set("preferred_place_id", strconv.Itoa(defaultPlaceID))

	var payload taxaResponse
	if err := c.get(ctx, "/taxa/"+strconv.Itoa(taxonID), params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, apperrors.NewNotFoundError("Species not found")
	}

	return &payload.Results[0], nil
}

// SearchObservations returns taxa observed near a location
func (c *INaturalistClient) SearchObservations(ctx context.Context, query domain.NearbyQuery) (*domain.NearbySearchResult, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(query.Latitude, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(query.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(query.RadiusKm))
	params.Set("per_page", strconv.Itoa(query.PerPage))
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("taxon_id", strconv.Itoa(insectaTaxonID))
	params.Set("locale", query.Locale)
	params.Set("preferred_place_id", strconv.Itoa(defaultPlaceID))
	params.Set("order_by", "observed_on")
	params.Set("verifiable", "true")

	var payload observationsResponse
	if err := c.get(ctx, "/observations", params, &payload); err != nil {
		return nil, err
	}

	taxa := make([]domain.Taxon, 0, len(payload.Results))
	for _, result := range payload.Results {
		if result.Taxon != nil {
			taxa = append(taxa, *result.Taxon)
		}
	}

	return &domain.NearbySearchResult{
		TotalResults: payload.TotalResults,
		Page:         query.Page,
		PerPage:      query.PerPage,
		Results:      taxa,
		Latitude:     query.Latitude,
		Longitude:    query.Longitude,
		RadiusKm:     query.RadiusKm,
	}, nil
}

func (c *INaturalistClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build iNaturalist request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("iNaturalist request failed", err, "path", path)
		return apperrors.NewUpstreamError("iNaturalist is unavailable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError("Species not found")
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("iNaturalist returned an error", nil, "path", path, "status", resp.StatusCode)
		return apperrors.NewUpstreamError(fmt.Sprintf("iNaturalist returned status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewUpstreamError("failed to decode iNaturalist response", err)
	}
	return nil
}
