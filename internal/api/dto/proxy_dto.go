package dto

import "encoding/json"

// ProxyRequest describes a call to relay to the secondary backend.
type ProxyRequest struct {
	Path    string          `json:"path"`
	Method  string          `json:"method"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
