// Package wire defines the message frames exchanged over a client
// channel. Frames ride an ordered bidirectional transport; ordering and
// delivery are the transport's job.
package wire

import (
	"github.com/resq-lab/rollcall/pkg/domain/action"
	"github.com/resq-lab/rollcall/pkg/domain/types"
)

// MessageType discriminates channel frames.
type MessageType string

const (
	// TypeHello is sent by the client with its socket credential.
	TypeHello MessageType = "hello"
	// TypeWelcome acknowledges authentication and assigns the
	// connection ID.
	TypeWelcome MessageType = "welcome"
	// TypeReportAction forwards a client action to the server.
	TypeReportAction MessageType = "reportAction"
	// TypeBroadcastAction fans an accepted action out to clients.
	TypeBroadcastAction MessageType = "broadcastAction"
)

// Message is one channel frame. Fields beyond Type are populated
// per message type.
type Message struct {
	Type MessageType `json:"type"`

	// Key carries the socket credential on hello.
	Key string `json:"key,omitempty"`

	// ConnectionID is assigned by the server on welcome.
	ConnectionID types.ConnectionID `json:"connectionId,omitempty"`

	// Action and ReporterID ride reportAction and broadcastAction.
	Action     *action.Action     `json:"action,omitempty"`
	ReporterID types.ConnectionID `json:"reporterId,omitempty"`
}

// Hello builds the authentication frame.
func Hello(key string) Message {
	return Message{Type: TypeHello, Key: key}
}

// Welcome builds the authentication acknowledgment frame.
func Welcome(connID types.ConnectionID) Message {
	return Message{Type: TypeWelcome, ConnectionID: connID}
}

// ReportAction builds a client-to-server action frame.
func ReportAction(act action.Action, reporterID types.ConnectionID) Message {
	return Message{Type: TypeReportAction, Action: &act, ReporterID: reporterID}
}

// BroadcastAction builds a server-to-client action frame.
func BroadcastAction(act action.Action, reporterID types.ConnectionID) Message {
	return Message{Type: TypeBroadcastAction, Action: &act, ReporterID: reporterID}
}
