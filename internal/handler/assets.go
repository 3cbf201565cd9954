package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/repository"
)

// AssetHandler serves item and sound management
type AssetHandler struct {
	assets repository.Asset
}

func NewAssetHandler(assets repository.Asset) *AssetHandler {
	return &AssetHandler{assets: assets}
}

type CreateItemRequest struct {
	Name           string      `json:"name" validate:"required,max=100"`
	ImageSrc       string      `json:"image_src" validate:"required"`
	Scale          float64     `json:"scale" validate:"omitempty,gt=0"`
	Weight         float64     `json:"weight" validate:"omitempty,gt=0"`
	Pixelate       bool        `json:"pixelate"`
	ImpactSoundIDs []uuid.UUID `json:"impact_sound_ids" validate:"max=50"`
}

type CreateSoundRequest struct {
	Name   string   `json:"name" validate:"required,max=100"`
	Src    string   `json:"src" validate:"required"`
	Volume *float64 `json:"volume" validate:"omitempty,min=0,max=1"`
}

// HandleListItems returns every item
// @Summary List items
// @Tags assets
// @Produce json
// @Success 200 {object} DataResponse
// @Router /items [get]
func (h *AssetHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.assets.ListItems(r.Context())
	if err != nil {
		respondServiceError(w, r, ErrMsgListAssetsFailed, err)
		return
	}
	respondData(w, http.StatusOK, items)
}

// HandleCreateItem stores a throwable item. Scale and weight default to 1.
// @Summary Create item
// @Tags assets
// @Accept json
// @Produce json
// @Param request body CreateItemRequest true "Item"
// @Success 201 {object} DataResponse
// @Failure 404 {object} ErrorResponse "Unknown impact sound"
// @Router /items [post]
func (h *AssetHandler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create item"); err != nil {
		return
	}

	item := domain.Item{
		Name:           req.Name,
		ImageSrc:       req.ImageSrc,
		Scale:          req.Scale,
		Weight:         req.Weight,
		Pixelate:       req.Pixelate,
		ImpactSoundIDs: req.ImpactSoundIDs,
	}
	if item.Scale == 0 {
		item.Scale = domain.DefaultItemScale
	}
	if item.Weight == 0 {
		item.Weight = domain.DefaultItemWeight
	}

	if err := h.assets.CreateItem(r.Context(), &item); err != nil {
		respondServiceError(w, r, ErrMsgSaveAssetFailed, err)
		return
	}
	respondData(w, http.StatusCreated, item)
}

// HandleDeleteItem removes an item
// @Summary Delete item
// @Tags assets
// @Param id path string true "Item ID"
// @Success 200 {object} SuccessResponse
// @Router /items/{id} [delete]
func (h *AssetHandler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w, "id")
	if !ok {
		return
	}
	if err := h.assets.DeleteItem(r.Context(), id); err != nil {
		respondServiceError(w, r, ErrMsgDeleteAssetFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgAssetDeleted})
}

// HandleListSounds returns every sound
// @Summary List sounds
// @Tags assets
// @Produce json
// @Success 200 {object} DataResponse
// @Router /sounds [get]
func (h *AssetHandler) HandleListSounds(w http.ResponseWriter, r *http.Request) {
	sounds, err := h.assets.ListSounds(r.Context())
	if err != nil {
		respondServiceError(w, r, ErrMsgListAssetsFailed, err)
		return
	}
	respondData(w, http.StatusOK, sounds)
}

// HandleCreateSound stores a sound. Volume defaults to 1.
// @Summary Create sound
// @Tags assets
// @Accept json
// @Produce json
// @Param request body CreateSoundRequest true "Sound"
// @Success 201 {object} DataResponse
// @Router /sounds [post]
func (h *AssetHandler) HandleCreateSound(w http.ResponseWriter, r *http.Request) {
	var req CreateSoundRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create sound"); err != nil {
		return
	}

	sound := domain.Sound{Name: req.Name, Src: req.Src, Volume: 1}
	if req.Volume != nil {
		sound.Volume = *req.Volume
	}
	if err := h.assets.CreateSound(r.Context(), &sound); err != nil {
		respondServiceError(w, r, ErrMsgSaveAssetFailed, err)
		return
	}
	respondData(w, http.StatusCreated, sound)
}

// HandleDeleteSound removes a sound
// @Summary Delete sound
// @Tags assets
// @Param id path string true "Sound ID"
// @Success 200 {object} SuccessResponse
// @Router /sounds/{id} [delete]
func (h *AssetHandler) HandleDeleteSound(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w, "id")
	if !ok {
		return
	}
	if err := h.assets.DeleteSound(r.Context(), id); err != nil {
		respondServiceError(w, r, ErrMsgDeleteAssetFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgAssetDeleted})
}
