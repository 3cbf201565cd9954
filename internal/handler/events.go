package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/engine"
	"github.com/osse101/ThrowBot_Go/internal/logger"
)

// EventSubmitter accepts external events into the ingestion queue
type EventSubmitter interface {
	Submit(ctx context.Context, ev domain.ExternalEvent) error
}

// HandleSubmitEvent queues an external event exactly as if the event source had produced it.
// The body uses the tagged event codec, e.g. {"type":"bits","user":{...},"bits":500}.
// @Summary Inject external event
// @Tags events
// @Accept json
// @Produce json
// @Success 202 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /events [post]
func HandleSubmitEvent(submitter EventSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Warn("Failed to read event body", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}
		ev, err := domain.UnmarshalExternalEvent(body)
		if err != nil {
			log.Warn("Invalid external event", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidEvent)
			return
		}

		if err := submitter.Submit(r.Context(), ev); err != nil {
			if errors.Is(err, engine.ErrEngineStopped) {
				respondError(w, http.StatusServiceUnavailable, ErrMsgEngineUnavailable)
				return
			}
			log.Warn(ErrMsgSubmitEventFailed, "error", err)
			respondError(w, http.StatusServiceUnavailable, ErrMsgSubmitEventFailed)
			return
		}

		log.Info(LogMsgEventQueued, "event_type", ev.Kind())
		respondJSON(w, http.StatusAccepted, SuccessResponse{Message: MsgEventQueued})
	}
}
