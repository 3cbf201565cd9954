package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/engine"
)

func TestHandleSubmitEvent(t *testing.T) {
	cheer := `{"type":"bits","user":{"id":"1","login":"a","display_name":"A"},"bits":500,"anonymous":false,"message":"Cheer500"}`

	tests := []struct {
		name       string
		body       string
		submitErr  error
		wantStatus int
		wantBody   string
	}{
		{"queued", cheer, nil, http.StatusAccepted, MsgEventQueued},
		{"engine stopped", cheer, engine.ErrEngineStopped, http.StatusServiceUnavailable, ErrMsgEngineUnavailable},
		{"submit canceled", cheer, fmt.Errorf("submit: %w", assert.AnError), http.StatusServiceUnavailable, ErrMsgSubmitEventFailed},
		{"unknown type", `{"type":"raid"}`, nil, http.StatusBadRequest, ErrMsgInvalidEvent},
		{"missing type", `{"bits":5}`, nil, http.StatusBadRequest, ErrMsgInvalidEvent},
		{"malformed", `{`, nil, http.StatusBadRequest, ErrMsgInvalidEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitter := new(MockSubmitter)
			submitter.On("Submit", mock.Anything, mock.MatchedBy(func(ev domain.ExternalEvent) bool {
				c, ok := ev.(domain.CheerBitsEvent)
				return ok && c.Input.Bits == 500 && c.User != nil && c.User.Login == "a"
			})).Return(tt.submitErr).Maybe()

			w := serve(t, http.MethodPost, "/events", "/events", tt.body, HandleSubmitEvent(submitter))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if tt.wantStatus == http.StatusBadRequest {
				submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
			}
		})
	}
}
