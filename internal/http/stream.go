package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const streamKeepAlive = 15 * time.Second

// StreamReminders pushes every fired reminder to the client as a server-sent
// event until the client goes away or the bus is closed.
func (h *Handler) StreamReminders(c echo.Context) error {
	sub := h.bus.Subscribe()
	defer h.bus.Unsubscribe(sub)

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ctx := c.Request().Context()
	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			w.Flush()
		case r, ok := <-sub:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(r)
			if err != nil {
				log.Printf("reminder stream: encode %s: %v", r.ID, err)
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: reminder\ndata: %s\n\n", r.ID, payload)
			w.Flush()
		}
	}
}
