package events

import (
	"fmt"
	"net/http"
	"time"
	"waitfaster_server/api/middleware"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
)

// Stream delivers change notifications as server-sent events until the
// client disconnects. Viewers only learn that something changed and
// re-query the matching endpoint.
func (erm *EventRoutesManager) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	// The server write timeout would otherwise cut the stream
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		erm.logger.Debug("Could not clear write deadline", gecho.Field("error", err))
	}

	events, unsubscribe := erm.hub.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		erm.logger.Error("Event stream cannot be flushed", gecho.Field("error", err))
		return
	}

	var username string
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		username = user.Username
	}
	erm.logger.Debug("Viewer connected", gecho.Field("username", username), gecho.Field("viewers", erm.hub.Len()))
	defer erm.logger.Debug("Viewer disconnected", gecho.Field("username", username))

	keepAlive := erm.cfg.KeepAlive
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// writeEvent frames ev as "event: <name>\ndata: <json>\n\n". Events without
// a payload carry an empty JSON object.
func writeEvent(w http.ResponseWriter, ev structs.Event) error {
	data := []byte(ev.Payload)
	if len(data) == 0 {
		data = []byte("{}")
	}
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
	return err
}
