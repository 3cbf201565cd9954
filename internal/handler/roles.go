package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// RoleManager reads and edits channel role membership
type RoleManager interface {
	List(ctx context.Context, role domain.ChannelRole) ([]domain.UserRef, error)
	Add(ctx context.Context, role domain.ChannelRole, user domain.UserRef) error
	Remove(ctx context.Context, role domain.ChannelRole, userID string) error
}

// RoleHandler serves moderator and VIP list management
type RoleHandler struct {
	roles RoleManager
}

func NewRoleHandler(roles RoleManager) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type GrantRoleRequest struct {
	ID          string `json:"id" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Login       string `json:"login" validate:"required,max=64"`
	DisplayName string `json:"display_name" validate:"max=64"`
}

func roleParam(r *http.Request, w http.ResponseWriter) (domain.ChannelRole, bool) {
	role := domain.ChannelRole(chi.URLParam(r, "role"))
	if !role.Valid() {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidChannelRole)
		return "", false
	}
	return role, true
}

// HandleList returns the members of a role
// @Summary List role members
// @Tags roles
// @Produce json
// @Param role path string true "moderator or vip"
// @Success 200 {object} DataResponse
// @Router /roles/{role} [get]
func (h *RoleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, ok := roleParam(r, w)
	if !ok {
		return
	}
	users, err := h.roles.List(r.Context(), role)
	if err != nil {
		respondServiceError(w, r, ErrMsgListRolesFailed, err)
		return
	}
	respondData(w, http.StatusOK, users)
}

// HandleGrant adds a user to a role
// @Summary Grant role
// @Tags roles
// @Accept json
// @Produce json
// @Param role path string true "moderator or vip"
// @Param request body GrantRoleRequest true "User"
// @Success 200 {object} SuccessResponse
// @Router /roles/{role} [post]
func (h *RoleHandler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	role, ok := roleParam(r, w)
	if !ok {
		return
	}
	var req GrantRoleRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Grant role"); err != nil {
		return
	}

	user := domain.UserRef{ID: req.ID, Login: req.Login, DisplayName: req.DisplayName}
	if user.DisplayName == "" {
		user.DisplayName = user.Login
	}
	if err := h.roles.Add(r.Context(), role, user); err != nil {
		respondServiceError(w, r, ErrMsgUpdateRoleFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRoleGranted})
}

// HandleRevoke removes a user from a role
// @Summary Revoke role
// @Tags roles
// @Param role path string true "moderator or vip"
// @Param userID path string true "Twitch user id"
// @Success 200 {object} SuccessResponse
// @Router /roles/{role}/{userID} [delete]
func (h *RoleHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	role, ok := roleParam(r, w)
	if !ok {
		return
	}
	if err := h.roles.Remove(r.Context(), role, chi.URLParam(r, "userID")); err != nil {
		respondServiceError(w, r, ErrMsgUpdateRoleFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRoleRevoked})
}
