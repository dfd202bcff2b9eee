package domain

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

const ProtocolVmess = "vmess"

var ErrCredentialNotFound = errors.New("credential not found")

// ErrCredentialExists signals the per-user unique constraint: a concurrent
// issue call already persisted a credential for this user. Callers re-read
// instead of failing the request.
var ErrCredentialExists = errors.New("credential already exists for user")

// ErrCredentialIDTaken signals the global identifier unique constraint. The
// only error class eligible for an internal retry (regenerate once).
var ErrCredentialIDTaken = errors.New("credential identifier already in use")

// Credential is the one durable access secret per user. It outlives
// entitlement churn: existence is independent of whether the user currently
// has access, and the identifier changes only on explicit rotation.
type Credential struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UUID      string    `json:"uuid"`
	Server    string    `json:"server"`
	Port      int       `json:"port"`
	Protocol  string    `json:"protocol"`
	CreatedAt time.Time `json:"created_at"`
	RotatedAt time.Time `json:"rotated_at,omitempty"`
}

// AccessDescriptor is the exportable connection record handed to clients.
// Produced only after a fresh access check succeeds.
type AccessDescriptor struct {
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
	ID       string `json:"id"`
}

// clientConfig is the v2ray client config document downstream tooling expects.
type clientConfig struct {
	V    string `json:"v"`
	PS   string `json:"ps"`
	Add  string `json:"add"`
	Port string `json:"port"`
	ID   string `json:"id"`
	Aid  string `json:"aid"`
	Scy  string `json:"scy"`
	Net  string `json:"net"`
	Type string `json:"type"`
	Host string `json:"host"`
	Path string `json:"path"`
	TLS  string `json:"tls"`
}

func (d AccessDescriptor) config(label string) clientConfig {
	return clientConfig{
		V:    "2",
		PS:   label,
		Add:  d.Server,
		Port: strconv.Itoa(d.Port),
		ID:   d.ID,
		Aid:  "0",
		Scy:  "auto",
		Net:  "ws",
		Type: "none",
		Host: "",
		Path: "/",
		TLS:  "tls",
	}
}

// Link renders the descriptor as a vmess:// URI (base64 of the client config).
func (d AccessDescriptor) Link(label string) string {
	raw, _ := json.Marshal(d.config(label))
	return "vmess://" + base64.StdEncoding.EncodeToString(raw)
}

// ConfigJSON renders the downloadable client config document.
func (d AccessDescriptor) ConfigJSON(label string) ([]byte, error) {
	return json.MarshalIndent(d.config(label), "", "  ")
}
