package domain

import (
	"errors"
	"time"
)

var ErrServerNotFound = errors.New("server not found")

// ServerStatus is the operational state reported for a VPN node.
type ServerStatus string

const (
	ServerOnline      ServerStatus = "online"
	ServerOffline     ServerStatus = "offline"
	ServerMaintenance ServerStatus = "maintenance"
)

// Server is an entry in the VPN node inventory shown to users. It is
// informational only: access descriptors are built from the deployment
// defaults, not from this catalog.
type Server struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Country      string       `json:"country"`
	City         string       `json:"city"`
	Status       ServerStatus `json:"status"`
	LocationCode string       `json:"location_code,omitempty"`
	Active       bool         `json:"active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (s *Server) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if s.Country == "" {
		return &ValidationError{Field: "country", Reason: "must not be empty"}
	}
	if s.City == "" {
		return &ValidationError{Field: "city", Reason: "must not be empty"}
	}
	switch s.Status {
	case ServerOnline, ServerOffline, ServerMaintenance:
		return nil
	default:
		return &ValidationError{Field: "status", Reason: "must be online, offline or maintenance"}
	}
}
