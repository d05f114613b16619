package server

import (
	"net/http"
	"time"

	"market-reporter/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *ReportServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			// Send current state on connect
			s.stateMutex.RLock()
			if s.latestState != nil {
				client.send <- s.latestState
			}
			s.stateMutex.RUnlock()

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}

		case message := <-s.broadcast:
			// Update state and broadcast
			s.stateMutex.Lock()
			s.latestState = message
			s.stateMutex.Unlock()

			for client := range s.clients {
				select {
				case client.send <- message:
					// Message sent successfully
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast pushes a run event (started / completed / failed) to all clients.
func (s *ReportServer) Broadcast(run models.MReportRun) {
	// Convert to the typed event BEFORE entering the channel so the Hub
	// loop does no data processing.
	event := &models.MLatestReport{
		Type:      eventType(run.Status),
		Run:       run,
		Timestamp: time.Now().UTC().Unix(),
	}

	s.broadcast <- event
}

// -----------------------------------------------------------------------------

// UpdateLatest replaces the stored state without notifying clients.
func (s *ReportServer) UpdateLatest(run models.MReportRun) {
	s.stateMutex.Lock()
	s.latestState = &models.MLatestReport{
		Type:      eventType(run.Status),
		Run:       run,
		Timestamp: time.Now().UTC().Unix(),
	}
	s.stateMutex.Unlock()
}

// -----------------------------------------------------------------------------

func eventType(status string) string {
	switch status {
	case "running":
		return "RUN_STARTED"
	case "success":
		return "RUN_COMPLETED"
	case "error":
		return "RUN_FAILED"
	default:
		return "UPDATE"
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *ReportServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan *models.MLatestReport, 256),
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}
