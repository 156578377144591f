package handler

import (
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinema-backend/internal/domains/movie/model"
	"cinema-backend/internal/domains/movie/service"
	"cinema-backend/internal/shared/response"
)

const maxPosterSize = 5 << 20 // 5 MB

type MovieHandler struct {
	service service.MovieService
}

func NewMovieHandler(service service.MovieService) *MovieHandler {
	return &MovieHandler{service: service}
}

// List handles GET /api/v1/movies
func (h *MovieHandler) List(c *gin.Context) {
	var query model.ListMoviesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	resp, err := h.service.ListMovies(c.Request.Context(), query)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, resp.Movies, response.Pagination(resp.Page, resp.Limit, resp.Total))
}

// Get handles GET /api/v1/movies/:id
func (h *MovieHandler) Get(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid movie id")
		return
	}

	movie, err := h.service.GetMovie(c.Request.Context(), movieID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, movie)
}

// Genres handles GET /api/v1/movies/genres
func (h *MovieHandler) Genres(c *gin.Context) {
	genres, err := h.service.ListGenres(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, genres)
}

// Create handles POST /api/v1/movies (admin)
func (h *MovieHandler) Create(c *gin.Context) {
	var req model.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	movie, err := h.service.CreateMovie(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, movie)
}

// Update handles PUT /api/v1/movies/:id (admin)
func (h *MovieHandler) Update(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid movie id")
		return
	}

	var req model.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	movie, err := h.service.UpdateMovie(c.Request.Context(), movieID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, movie)
}

// Delete handles DELETE /api/v1/movies/:id (admin)
func (h *MovieHandler) Delete(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid movie id")
		return
	}

	if err := h.service.DeleteMovie(c.Request.Context(), movieID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UploadPoster handles POST /api/v1/movies/:id/poster (admin)
func (h *MovieHandler) UploadPoster(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid movie id")
		return
	}

	file, header, err := c.Request.FormFile("poster")
	if err != nil {
		response.BadRequest(c, "poster file is required")
		return
	}
	defer file.Close()

	if header.Size > maxPosterSize {
		response.BadRequest(c, "poster file too large")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPosterSize))
	if err != nil {
		response.InternalServerError(c, "failed to read poster file")
		return
	}

	url, err := h.service.UploadPoster(c.Request.Context(), movieID, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"poster_url": url})
}

func (h *MovieHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", validationErrs)
		return
	}

	var movieErr *model.MovieError
	if errors.As(err, &movieErr) {
		switch movieErr.Code {
		case model.ErrCodeMovieNotFound, model.ErrCodeGenreNotFound:
			response.ErrorResponse(c, http.StatusNotFound, movieErr.Code, movieErr.Message)
		case model.ErrCodeSlugExists:
			response.ErrorResponse(c, http.StatusConflict, movieErr.Code, movieErr.Message)
		case model.ErrCodeInvalidPoster:
			response.ErrorResponse(c, http.StatusBadRequest, movieErr.Code, movieErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, movieErr.Code, movieErr.Message)
		}
		return
	}

	response.InternalServerError(c, "internal server error")
}
