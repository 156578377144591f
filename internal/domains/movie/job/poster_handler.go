package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"cinema-backend/internal/infrastructure/storage"
	"cinema-backend/internal/shared"
)

// ============================================
// Delete Poster Images Handler
// ============================================

// DeletePosterImagesHandler removes all stored poster objects for a
// deleted movie.
type DeletePosterImagesHandler struct {
	storage *storage.MinIOStorage
}

func NewDeletePosterImagesHandler(minioStorage *storage.MinIOStorage) *DeletePosterImagesHandler {
	return &DeletePosterImagesHandler{
		storage: minioStorage,
	}
}

func (h *DeletePosterImagesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeletePosterImagesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeletePosterImages payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	prefix := fmt.Sprintf("posters/%s/", payload.MovieID)
	if err := h.storage.DeleteByPrefix(ctx, prefix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("Failed to delete poster objects")
		return fmt.Errorf("delete poster objects: %w", err)
	}

	log.Info().
		Str("movie_id", payload.MovieID).
		Msg("Poster objects removed")

	return nil
}
