package repository

import (
	"encoding/json"
	"strconv"

	"insect-guide-server/internal/domain"
	apperrors "insect-guide-server/pkg/errors"
)

const favoritesTable = "favorites"

// SupabaseFavoriteRepository stores favorites in a Supabase table,
// queried with the caller's own token so row-level security applies.
type SupabaseFavoriteRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseFavoriteRepository creates a new favorites repository
func NewSupabaseFavoriteRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.FavoriteRepository {
	return &SupabaseFavoriteRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// List returns all favorites stored for a user
func (r *SupabaseFavoriteRepository) List(userID string, token string) ([]domain.Favorite, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(favoritesTable).
		Select("user_id,taxon_id,created_at", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		r.logger.Error("Failed to list favorites", err, "user_id", userID)
		return nil, apperrors.NewUpstreamError("Could not load favorites", err)
	}

	favorites := []domain.Favorite{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &favorites); err != nil {
			return nil, apperrors.NewUpstreamError("Could not decode favorites", err)
		}
	}
	return favorites, nil
}

// Add stores a favorite for a user. Upsert on (user_id, taxon_id) so a
// repeated add is idempotent instead of hitting the unique constraint.
func (r *SupabaseFavoriteRepository) Add(userID string, taxonID int, token string) (*domain.Favorite, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, err
	}

	row := map[string]interface{}{
		"user_id":  userID,
		"taxon_id": taxonID,
	}
	_, _, err = client.From(favoritesTable).Upsert(row, "user_id,taxon_id", "", "").Execute()
	if err != nil {
		r.logger.Error("Failed to add favorite", err, "user_id", userID, "taxon_id", taxonID)
		return nil, apperrors.NewUpstreamError("Could not save favorite", err)
	}

	return &domain.Favorite{UserID: userID, TaxonID: taxonID}, nil
}

// Exists reports whether a taxon is already among the user's favorites
func (r *SupabaseFavoriteRepository) Exists(userID string, taxonID int, token string) (bool, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return false, err
	}

	data, _, err := client.From(favoritesTable).
		Select("taxon_id", "", false).
		Eq("user_id", userID).
		Eq("taxon_id", strconv.Itoa(taxonID)).
		Limit(1, "").
		Execute()
	if err != nil {
		r.logger.Error("Failed to check favorite", err, "user_id", userID, "taxon_id", taxonID)
		return false, apperrors.NewUpstreamError("Could not check favorite", err)
	}

	var rows []struct {
		TaxonID int `json:"taxon_id"`
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return false, apperrors.NewUpstreamError("Could not decode favorite", err)
	}
	return len(rows) > 0, nil
}
