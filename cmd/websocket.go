package main

import (
	"net/http"

	"github.com/gorilla/websocket"

	"frenchdriver/internal/models"
)

// BookingEventsManager fans booking lifecycle events out to connected
// admin dashboards. PushBookingEvent never blocks: when the hub is
// saturated the event is dropped, the database remains the source of
// truth.
type BookingEventsManager struct {
	clients    map[*websocket.Conn]struct{}
	events     chan models.BookingEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

func NewBookingEventsManager() *BookingEventsManager {
	return &BookingEventsManager{
		clients:    make(map[*websocket.Conn]struct{}),
		events:     make(chan models.BookingEvent, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (m *BookingEventsManager) PushBookingEvent(event models.BookingEvent) {
	select {
	case m.events <- event:
	default:
	}
}

func (m *BookingEventsManager) Run() {
	for {
		select {
		case conn := <-m.register:
			m.clients[conn] = struct{}{}
		case conn := <-m.unregister:
			if _, ok := m.clients[conn]; ok {
				conn.Close()
				delete(m.clients, conn)
			}
		case event := <-m.events:
			for conn := range m.clients {
				if err := conn.WriteJSON(event); err != nil {
					conn.Close()
					delete(m.clients, conn)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// BookingEventsHandler upgrades an admin connection onto the live feed.
func (app *application) BookingEventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Printf("websocket upgrade error: %v", err)
		return
	}
	app.eventsManager.register <- conn

	go func() {
		defer func() { app.eventsManager.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
