package handler

import "net/http"

// EventSource exposes the connection state of the upstream event feed
type EventSource interface {
	IsConnected() bool
	IsDormant() bool
	Wake() bool
}

// SourceStatus describes the event source connection
type SourceStatus struct {
	Connected bool `json:"connected"`
	Dormant   bool `json:"dormant"`
}

// HandleSourceStatus reports whether the event source is connected
// @Summary Event source status
// @Tags source
// @Produce json
// @Success 200 {object} DataResponse
// @Router /source/status [get]
func HandleSourceStatus(source EventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondData(w, http.StatusOK, SourceStatus{
			Connected: source.IsConnected(),
			Dormant:   source.IsDormant(),
		})
	}
}

// HandleSourceReconnect wakes a dormant event source so it retries now
// @Summary Reconnect event source
// @Tags source
// @Produce json
// @Success 202 {object} SuccessResponse
// @Failure 409 {object} ErrorResponse
// @Router /source/reconnect [post]
func HandleSourceReconnect(source EventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !source.Wake() {
			respondError(w, http.StatusConflict, ErrMsgSourceNotDormant)
			return
		}
		respondJSON(w, http.StatusAccepted, SuccessResponse{Message: MsgSourceWoken})
	}
}
