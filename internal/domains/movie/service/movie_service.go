package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"cinema-backend/internal/domains/movie/model"
	"cinema-backend/internal/domains/movie/repository"
	"cinema-backend/internal/infrastructure/storage"
	"cinema-backend/internal/shared"
	"cinema-backend/internal/shared/utils"
	"cinema-backend/pkg/cache"
	"cinema-backend/pkg/logger"
)

const (
	movieCacheKeyPrefix = "movie:"
	movieCacheTTL       = 10 * time.Minute
)

var allowedPosterTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

type MovieService interface {
	GetMovie(ctx context.Context, movieID uuid.UUID) (*model.Movie, error)
	GetMovieBySlug(ctx context.Context, slug string) (*model.Movie, error)
	ListMovies(ctx context.Context, query model.ListMoviesQuery) (*model.MovieListResponse, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)

	CreateMovie(ctx context.Context, req model.CreateMovieRequest) (*model.Movie, error)
	UpdateMovie(ctx context.Context, movieID uuid.UUID, req model.UpdateMovieRequest) (*model.Movie, error)
	DeleteMovie(ctx context.Context, movieID uuid.UUID) error
	UploadPoster(ctx context.Context, movieID uuid.UUID, data []byte, contentType string) (string, error)
}

type movieService struct {
	repo        repository.MovieRepository
	cache       cache.Cache
	storage     *storage.MinIOStorage
	posters     *storage.PosterProcessor
	asynqClient *asynq.Client
}

func NewMovieService(
	repo repository.MovieRepository,
	cacheClient cache.Cache,
	minioStorage *storage.MinIOStorage,
	asynqClient *asynq.Client,
) MovieService {
	return &movieService{
		repo:        repo,
		cache:       cacheClient,
		storage:     minioStorage,
		posters:     storage.NewPosterProcessor(),
		asynqClient: asynqClient,
	}
}

// =====================================================
// READS
// =====================================================

// GetMovie serves the detail page; the hot path is cache-backed.
func (s *movieService) GetMovie(ctx context.Context, movieID uuid.UUID) (*model.Movie, error) {
	cacheKey := movieCacheKeyPrefix + movieID.String()

	var cached model.Movie
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		// Cache trouble is not a reason to fail the request.
		logger.Warn("movie cache get failed", map[string]interface{}{"error": err.Error()})
	}
	if found {
		return &cached, nil
	}

	movie, err := s.repo.GetMovieByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, model.ErrMovieNotFound) {
			return nil, model.NewMovieError(model.ErrCodeMovieNotFound, "movie not found", err)
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, movie, movieCacheTTL); err != nil {
		logger.Warn("movie cache set failed", map[string]interface{}{"error": err.Error()})
	}

	return movie, nil
}

func (s *movieService) GetMovieBySlug(ctx context.Context, slug string) (*model.Movie, error) {
	movie, err := s.repo.GetMovieBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, model.ErrMovieNotFound) {
			return nil, model.NewMovieError(model.ErrCodeMovieNotFound, "movie not found", err)
		}
		return nil, err
	}
	return movie, nil
}

func (s *movieService) ListMovies(ctx context.Context, query model.ListMoviesQuery) (*model.MovieListResponse, error) {
	query.Normalize()

	movies, total, err := s.repo.ListMovies(ctx, query)
	if err != nil {
		return nil, err
	}

	return &model.MovieListResponse{
		Movies: movies,
		Total:  total,
		Page:   query.Page,
		Limit:  query.Limit,
	}, nil
}

func (s *movieService) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.repo.GetGenres(ctx)
}

// =====================================================
// ADMIN WRITES
// =====================================================

func (s *movieService) CreateMovie(ctx context.Context, req model.CreateMovieRequest) (*model.Movie, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	movie := &model.Movie{
		ID:              uuid.New(),
		Title:           req.Title,
		Slug:            utils.GenerateSlug(req.Title),
		Description:     req.Description,
		Price:           decimal.NewFromFloat(req.Price),
		ReleaseYear:     req.ReleaseYear,
		DurationMinutes: req.DurationMinutes,
	}

	if err := s.repo.CreateMovie(ctx, movie); err != nil {
		if errors.Is(err, model.ErrSlugExists) {
			return nil, model.NewMovieError(model.ErrCodeSlugExists, "a movie with this title already exists", err)
		}
		return nil, err
	}

	if len(req.GenreIDs) > 0 {
		if err := s.repo.SetMovieGenres(ctx, movie.ID, req.GenreIDs); err != nil {
			if errors.Is(err, model.ErrGenreNotFound) {
				return nil, model.NewMovieError(model.ErrCodeGenreNotFound, "unknown genre", err)
			}
			return nil, err
		}
	}

	return s.repo.GetMovieByID(ctx, movie.ID)
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID uuid.UUID, req model.UpdateMovieRequest) (*model.Movie, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	movie, err := s.repo.GetMovieByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, model.ErrMovieNotFound) {
			return nil, model.NewMovieError(model.ErrCodeMovieNotFound, "movie not found", err)
		}
		return nil, err
	}

	if req.Title != nil {
		movie.Title = *req.Title
		movie.Slug = utils.GenerateSlug(*req.Title)
	}
	if req.Description != nil {
		movie.Description = req.Description
	}
	if req.Price != nil {
		movie.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.ReleaseYear != nil {
		movie.ReleaseYear = *req.ReleaseYear
	}
	if req.DurationMinutes != nil {
		movie.DurationMinutes = *req.DurationMinutes
	}

	if err := s.repo.UpdateMovie(ctx, movie); err != nil {
		if errors.Is(err, model.ErrSlugExists) {
			return nil, model.NewMovieError(model.ErrCodeSlugExists, "a movie with this title already exists", err)
		}
		return nil, err
	}

	if req.GenreIDs != nil {
		if err := s.repo.SetMovieGenres(ctx, movie.ID, req.GenreIDs); err != nil {
			return nil, err
		}
	}

	s.invalidateCache(ctx, movieID)

	return s.repo.GetMovieByID(ctx, movieID)
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID uuid.UUID) error {
	if err := s.repo.DeleteMovie(ctx, movieID); err != nil {
		if errors.Is(err, model.ErrMovieNotFound) {
			return model.NewMovieError(model.ErrCodeMovieNotFound, "movie not found", err)
		}
		return err
	}

	s.invalidateCache(ctx, movieID)

	// Poster cleanup happens in the worker; deleting the row
	// must not wait on object storage.
	payload, err := utils.MarshalTask(shared.DeletePosterImagesPayload{MovieID: movieID.String()})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeDeletePosterImages, payload)
	if _, err := s.asynqClient.Enqueue(task, asynq.Queue(shared.QueueLow)); err != nil {
		logger.Error("failed to enqueue poster cleanup", err)
	}

	return nil
}

// UploadPoster stores the poster and records its URL.
func (s *movieService) UploadPoster(ctx context.Context, movieID uuid.UUID, data []byte, contentType string) (string, error) {
	ext, ok := allowedPosterTypes[contentType]
	if !ok {
		return "", model.NewMovieError(model.ErrCodeInvalidPoster, "unsupported poster content type", model.ErrInvalidPoster)
	}

	if err := s.posters.ValidatePoster(data); err != nil {
		return "", model.NewMovieError(model.ErrCodeInvalidPoster, err.Error(), model.ErrInvalidPoster)
	}

	if _, err := s.repo.GetMovieByID(ctx, movieID); err != nil {
		if errors.Is(err, model.ErrMovieNotFound) {
			return "", model.NewMovieError(model.ErrCodeMovieNotFound, "movie not found", err)
		}
		return "", err
	}

	key := fmt.Sprintf("posters/%s/original.%s", movieID, ext)
	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", err
	}

	variants, err := s.posters.ProcessPoster(data)
	if err != nil {
		return "", model.NewMovieError(model.ErrCodeInvalidPoster, err.Error(), model.ErrInvalidPoster)
	}
	for name, variant := range variants {
		variantKey := fmt.Sprintf("posters/%s/%s.jpg", movieID, name)
		if _, err := s.storage.Upload(ctx, variantKey, variant, "image/jpeg"); err != nil {
			return "", err
		}
	}

	if err := s.repo.UpdatePosterURL(ctx, movieID, url); err != nil {
		return "", err
	}

	s.invalidateCache(ctx, movieID)

	return url, nil
}

func (s *movieService) invalidateCache(ctx context.Context, movieID uuid.UUID) {
	if err := s.cache.Delete(ctx, movieCacheKeyPrefix+movieID.String()); err != nil {
		logger.Warn("movie cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
