package pushrelay

// Message is a push notification accepted by the relay.
type Message struct {
	To    string                 `json:"to"`
	Sound string                 `json:"sound,omitempty"`
	Title string                 `json:"title,omitempty"`
	Body  string                 `json:"body,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// Validate checks the message can be delivered.
func (m Message) Validate() error {
	if m.To == "" {
		return ErrMissingRecipient
	}
	if m.Title == "" && m.Body == "" && len(m.Data) == 0 {
		return ErrEmptyMessage
	}
	return nil
}

// SampleMessage is the test notification sent by `clinic push test`.
func SampleMessage(to string) Message {
	return Message{
		To:    to,
		Sound: "default",
		Title: "Original Title",
		Body:  "And here is the body!",
		Data:  map[string]interface{}{"someData": "goes here"},
	}
}

// Ticket is the relay's receipt for one message.
type Ticket struct {
	Status  string                 `json:"status"`
	ID      string                 `json:"id,omitempty"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// OK reports whether the relay accepted the message.
func (t Ticket) OK() bool {
	return t.Status == "ok"
}

// TokenRequest asks the relay to issue a push-delivery token for a device.
type TokenRequest struct {
	Type        string `json:"type"`
	DeviceID    string `json:"deviceId"`
	ProjectID   string `json:"projectId,omitempty"`
	AppID       string `json:"appId,omitempty"`
	DeviceToken string `json:"deviceToken,omitempty"`
	Development bool   `json:"development"`
}

type tokenData struct {
	ExpoPushToken string `json:"expoPushToken"`
}

type relayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
