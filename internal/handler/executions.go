package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/repository"
)

// DefaultExecutionLimit is the page size when the caller gives none
const DefaultExecutionLimit = 50

// MaxExecutionLimit caps a single page
const MaxExecutionLimit = 500

// ExecutionHandler serves rule execution history
type ExecutionHandler struct {
	executions repository.Execution
}

func NewExecutionHandler(executions repository.Execution) *ExecutionHandler {
	return &ExecutionHandler{executions: executions}
}

// DeleteExecutionsRequest lists the executions to remove
type DeleteExecutionsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=1000"`
}

// DeleteExecutionsResponse reports how many executions were removed
type DeleteExecutionsResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// HandleListForRule pages through a rule's executions, newest first
// @Summary List rule executions
// @Tags executions
// @Produce json
// @Param id path string true "Rule ID"
// @Param start query string false "Inclusive lower bound (RFC3339)"
// @Param end query string false "Exclusive upper bound (RFC3339)"
// @Param offset query int false "Rows to skip"
// @Param limit query int false "Page size"
// @Success 200 {object} DataResponse
// @Router /rules/{id}/executions [get]
func (h *ExecutionHandler) HandleListForRule(w http.ResponseWriter, r *http.Request) {
	ruleID, ok := GetIDParam(r, w, "id")
	if !ok {
		return
	}

	var q domain.ExecutionQuery
	if q.Start, ok = GetOptionalTimeParam(r, w, "start"); !ok {
		return
	}
	if q.End, ok = GetOptionalTimeParam(r, w, "end"); !ok {
		return
	}
	if q.Offset, ok = GetOptionalIntParam(r, w, "offset", 0); !ok {
		return
	}
	if q.Limit, ok = GetOptionalIntParam(r, w, "limit", DefaultExecutionLimit); !ok {
		return
	}
	q.Limit = min(q.Limit, MaxExecutionLimit)

	executions, err := h.executions.ListForRule(r.Context(), ruleID, q)
	if err != nil {
		respondServiceError(w, r, ErrMsgListExecutionsFailed, err)
		return
	}
	respondData(w, http.StatusOK, executions)
}

// HandleDelete removes executions by id
// @Summary Delete executions
// @Tags executions
// @Accept json
// @Produce json
// @Param request body DeleteExecutionsRequest true "Execution ids"
// @Success 200 {object} DeleteExecutionsResponse
// @Router /executions [delete]
func (h *ExecutionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req DeleteExecutionsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Delete executions"); err != nil {
		return
	}

	n, err := h.executions.DeleteMany(r.Context(), req.IDs)
	if err != nil {
		respondServiceError(w, r, ErrMsgDeleteExecutionFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, DeleteExecutionsResponse{Message: MsgExecutionsDeleted, Deleted: n})
}
