package handler

import (
	"net/http"

	"github.com/uberspeed/dispatch/pkg/logger"
	wrap "github.com/uberspeed/dispatch/pkg/logger/wrapper"
)

// Ops serves the internal endpoints other services poll: which drivers are
// broadcasting a position right now, and whether a given user holds a live
// connection.
type Ops struct {
	dispatcher Dispatcher
	log        logger.Logger
}

func NewOps(dispatcher Dispatcher, log logger.Logger) *Ops {
	return &Ops{
		dispatcher: dispatcher,
		log:        log,
	}
}

// ActiveDrivers - lists drivers with a known recent location.
func (h *Ops) ActiveDrivers(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_active_drivers")

	drivers := h.dispatcher.ActiveDrivers()

	response := envelope{
		"drivers": drivers,
		"count":   len(drivers),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

// UserOnline - reports whether the user has a registered connection.
func (h *Ops) UserOnline(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "check_user_online")

	userID := r.PathValue("user_id")
	if userID == "" {
		errorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	response := envelope{
		"user_id": userID,
		"online":  h.dispatcher.IsUserOnline(userID),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.log.Error(wrap.WithUserID(ctx, userID), "failed to write response", err)
	}
}
