package events

import (
	"encoding/json"
	"time"
)

const (
	TypePing         = "ping"
	TypeJobsImported = "jobs_imported"
	TypeJobsCleaned  = "jobs_cleaned"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type JobsImported struct {
	Added    int `json:"added"`
	Updated  int `json:"updated"`
	Rejected int `json:"rejected"`
}

type JobsCleaned struct {
	Deleted int64     `json:"deleted"`
	Cutoff  time.Time `json:"cutoff"`
}

// Publisher is the side of the hub that producers see.
type Publisher interface {
	Emit(reqID, typ string, data any)
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(string, string, any) {}
