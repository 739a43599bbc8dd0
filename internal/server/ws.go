package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/boardquiz/internal/game"
)

// handleSnapshotSocket pushes a snapshot on connect and after every change.
// Messages from the client are ignored.
func handleSnapshotSocket(logger *slog.Logger, sess *game.Session, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 6*time.Hour)
		defer cancel()
		ctx = conn.CloseRead(ctx)

		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		if err := wsjson.Write(ctx, conn, sess.Snapshot()); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}

		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case data := <-ch:
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}
