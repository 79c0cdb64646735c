package domain

// Response is the event envelope delivered on a session's response channel by
// transports and by the session itself. Exactly one of Text/Err/Typing/Status
// is meaningful per event.
type Response struct {
	SessionID string
	Text      string
	Err       error
	Typing    bool
	Status    ConnStatus
}

type ConnStatus string

const (
	ConnStatusNone         ConnStatus = ""
	ConnStatusConnected    ConnStatus = "connected"
	ConnStatusDisconnected ConnStatus = "disconnected"
)

// File is a generated download handed back to the caller, e.g. an inventory
// export.
type File struct {
	Name string
	MIME string
	Data []byte
}
