package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"media-studio/internal/config"
	domain "media-studio/internal/domain/media"
	"media-studio/internal/infrastructure/auth"
	"media-studio/internal/interfaces/httpserver/requests"
	"media-studio/internal/interfaces/httpserver/responses"
	"media-studio/internal/utils/platformerrors"
)

const (
	uploadFormField   = "file"
	multipartOverhead = 1 << 20
)

// MediaHandler exposes media endpoints.
type MediaHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewMediaHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "media-handler").Logger(),
	}
}

// List godoc
// @Summary      List media
// @Description  Lists the caller's active media merged with the asset store details. Items the store cannot describe right now are left out.
// @Tags         media
// @Produce      json
// @Success      200  {object}  responses.MediaListResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      429  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media [get]
func (h *MediaHandler) List(c *gin.Context) {
	session, _ := auth.SessionFromContext(c)

	records, err := h.service.List(c.Request.Context(), session.UserID)
	if err != nil {
		responses.HandleError(c, err, "failed to list media")
		return
	}
	c.JSON(http.StatusOK, responses.BuildMediaListResponse(records))
}

// Get godoc
// @Summary      Get media
// @Description  Returns one active media record owned by the caller.
// @Tags         media
// @Produce      json
// @Param        id   path      string  true  "Media ID"
// @Success      200  {object}  responses.MediaResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      503  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id} [get]
func (h *MediaHandler) Get(c *gin.Context) {
	session, _ := auth.SessionFromContext(c)

	rec, err := h.service.GetByID(c.Request.Context(), c.Param("id"), session.UserID)
	if err != nil {
		responses.HandleError(c, err, "failed to get media")
		return
	}
	if rec == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "media not found", "7b1e3d5f-2c4a-4e6b-8d9f-0a1c3e5b7d92")
		return
	}
	c.JSON(http.StatusOK, responses.BuildMediaResponse(rec))
}

// Upload godoc
// @Summary      Upload media
// @Description  Stores a file in the asset store and indexes it. Anonymous uploads are temporary and reclaimed after the retention window.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   "Image or video file"
// @Param        name  formData  string  false  "Display name (defaults to the file name)"
// @Success      201   {object}  responses.MediaResponse
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      429   {object}  responses.ErrorResponse
// @Failure      503   {object}  responses.ErrorResponse
// @Router       /v1/media/upload [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	ownerID, subject, ok := caller(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "caller identity missing", "8c2f4e6a-3d5b-4f7c-9e0a-1b2d4f6c8e03")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxMediaBytes+multipartOverhead)
	fileHeader, err := c.FormFile(uploadFormField)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, fmt.Sprintf("file exceeds max size of %d bytes", h.cfg.MaxMediaBytes), "f39ab1d2-0e2c-4a4d-8f7b-8c9e1a3d5f70")
		return
	}
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "multipart field 'file' is required", "9d3a5f7b-4e6c-4a8d-8f1b-2c3e5a7d9f14")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "failed to read upload", "ae4b6a8c-5f7d-4b9e-9a2c-3d4f6b8e0a25")
		return
	}
	defer file.Close()

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = fileHeader.Filename
	}

	rec, err := h.service.Upload(c.Request.Context(), domain.UploadParams{
		OwnerID:     ownerID,
		RateSubject: subject,
		FileName:    name,
		Body:        file,
		Size:        fileHeader.Size,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to upload media")
		return
	}
	c.JSON(http.StatusCreated, responses.BuildMediaResponse(rec))
}

// Register godoc
// @Summary      Register media
// @Description  Indexes an asset the caller already uploaded to the asset store.
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request  body      requests.RegisterMediaRequest  true  "Asset details"
// @Success      201      {object}  responses.MediaResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      401      {object}  responses.ErrorResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Failure      429      {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media [post]
func (h *MediaHandler) Register(c *gin.Context) {
	session, _ := auth.SessionFromContext(c)

	var req requests.RegisterMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "c06d8cae-7b9f-4d1a-9c4e-5f6b8d0a2c47")
		return
	}

	rec, err := h.service.Create(c.Request.Context(), req.ToDomain(session.UserID, ""))
	if err != nil {
		responses.HandleError(c, err, "failed to register media")
		return
	}
	c.JSON(http.StatusCreated, responses.BuildMediaResponse(rec))
}

// Update godoc
// @Summary      Update media
// @Description  Renames an active media record owned by the caller.
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Media ID"
// @Param        request  body      requests.UpdateMediaRequest  true  "Fields to update"
// @Success      200      {object}  responses.MediaResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id} [patch]
func (h *MediaHandler) Update(c *gin.Context) {
	session, _ := auth.SessionFromContext(c)

	var req requests.UpdateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "d17e9dbf-8c0a-4e2b-8d5f-6a7c9e1b3d58")
		return
	}

	rec, err := h.service.Update(c.Request.Context(), c.Param("id"), session.UserID, req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "failed to update media")
		return
	}
	c.JSON(http.StatusOK, responses.BuildMediaResponse(rec))
}

// Delete godoc
// @Summary      Delete media
// @Description  Marks the record deleted, then removes the remote asset. A remote failure does not fail the request.
// @Tags         media
// @Produce      json
// @Param        id   path      string  true  "Media ID"
// @Success      200  {object}  responses.DeleteMediaResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	session, _ := auth.SessionFromContext(c)
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id, session.UserID); err != nil {
		responses.HandleError(c, err, "failed to delete media")
		return
	}
	c.JSON(http.StatusOK, responses.DeleteMediaResponse{ID: id, Deleted: true})
}

// PersistTransformation godoc
// @Summary      Save transformation
// @Description  Encodes the edit, builds a cache-busted render URL and stores it on the media record.
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Media ID"
// @Param        request  body      requests.TransformationRequest  true  "Overlays and effects"
// @Success      200      {object}  responses.MediaResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id}/transformation [put]
func (h *MediaHandler) PersistTransformation(c *gin.Context) {
	session, _ := auth.SessionFromContext(c)

	var req requests.TransformationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "e28fa0c1-9d1b-4f3c-9e6a-7b8d0f2c4e69")
		return
	}
	set, err := req.ToSet()
	if err != nil {
		responses.HandleError(c, err, "invalid transformation")
		return
	}

	rec, err := h.service.PersistTransformedURL(c.Request.Context(), c.Param("id"), session.UserID, set)
	if err != nil {
		responses.HandleError(c, err, "failed to save transformation")
		return
	}
	c.JSON(http.StatusOK, responses.BuildMediaResponse(rec))
}

// caller returns the owner id and rate-limit subject of the request. Callers
// without a session are anonymous (owner 0) and identified by their cookie.
func caller(c *gin.Context) (int, string, bool) {
	if session, ok := auth.SessionFromContext(c); ok {
		return session.UserID, "", true
	}
	anonymousID := auth.AnonymousIDFromContext(c)
	if anonymousID == "" {
		return 0, "", false
	}
	return domain.AnonymousOwnerID, anonymousID, true
}
