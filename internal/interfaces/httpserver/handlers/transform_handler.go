package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "media-studio/internal/domain/media"
	"media-studio/internal/domain/transform"
	"media-studio/internal/interfaces/httpserver/requests"
	"media-studio/internal/interfaces/httpserver/responses"
	"media-studio/internal/utils/platformerrors"
)

// TransformHandler exposes the stateless editor endpoints.
type TransformHandler struct {
	service *domain.Service
	log     zerolog.Logger
}

func NewTransformHandler(service *domain.Service, log zerolog.Logger) *TransformHandler {
	return &TransformHandler{
		service: service,
		log:     log.With().Str("component", "transform-handler").Logger(),
	}
}

// Preview godoc
// @Summary      Preview transformation
// @Description  Encodes overlays and effects into a descriptor and returns the render URL. Nothing is stored.
// @Tags         transformations
// @Accept       json
// @Produce      json
// @Param        request  body      requests.PreviewRequest  true  "Asset path, overlays and effects"
// @Success      200      {object}  responses.PreviewResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/transformations/preview [post]
func (h *TransformHandler) Preview(c *gin.Context) {
	var req requests.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "04ab2c3e-1f3d-4b5e-9a8c-9d0f2b4e6a81")
		return
	}

	set, err := req.ToSet()
	if err != nil {
		responses.HandleError(c, err, "invalid transformation")
		return
	}

	url, err := h.service.Preview(req.AssetPath, set, req.BustCache)
	if err != nil {
		responses.HandleError(c, err, "failed to build preview url")
		return
	}
	c.JSON(http.StatusOK, responses.BuildPreviewResponse(set, url))
}

// Fonts godoc
// @Summary      List overlay fonts
// @Tags         transformations
// @Produce      json
// @Success      200  {object}  responses.FontsResponse
// @Router       /v1/transformations/fonts [get]
func (h *TransformHandler) Fonts(c *gin.Context) {
	fonts := make([]string, len(transform.Fonts))
	copy(fonts, transform.Fonts)
	c.JSON(http.StatusOK, responses.FontsResponse{
		Fonts:             fonts,
		DefaultFont:       transform.DefaultFont,
		DefaultFontSizePx: transform.DefaultFontSizePx,
		DefaultBackground: transform.DefaultBackgroundColor,
	})
}
