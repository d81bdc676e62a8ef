package domain

import "time"

// ConnectionState represents the state of the chain connection.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
)

// ConnectionStatus contains detailed connection information.
type ConnectionStatus struct {
	State      ConnectionState
	LastHeight uint64
	LastUpdate time.Time
	Reconnects int
	UsingHTTP  bool // true if the height feed fell back to polling
}
