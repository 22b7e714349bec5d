package handler

// RequestEnvelope is the voice-platform request body.
// See https://developer.amazon.com/docs/custom-skills/request-and-response-json-reference.html
type RequestEnvelope struct {
	Version string          `json:"version"`
	Session SessionRequest  `json:"session"`
	Context *ContextRequest `json:"context,omitempty"`
	Request RequestBody     `json:"request"`
}

type SessionRequest struct {
	New         bool                   `json:"new"`
	SessionID   string                 `json:"sessionId"`
	Application ApplicationRequest     `json:"application"`
	Attributes  map[string]interface{} `json:"attributes"`
	User        UserRequest            `json:"user"`
}

type ApplicationRequest struct {
	ApplicationID string `json:"applicationId"`
}

type UserRequest struct {
	UserID string `json:"userId"`
}

type ContextRequest struct {
	System struct {
		Application ApplicationRequest `json:"application"`
		User        UserRequest        `json:"user"`
	} `json:"System"`
}

type RequestBody struct {
	Type      string        `json:"type"`
	RequestID string        `json:"requestId"`
	Timestamp string        `json:"timestamp"`
	Locale    string        `json:"locale"`
	Intent    IntentRequest `json:"intent"`
	Reason    string        `json:"reason,omitempty"`
}

type IntentRequest struct {
	Name  string                 `json:"name"`
	Slots map[string]SlotRequest `json:"slots"`
}

type SlotRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ApplicationID prefers the context application over the session one.
func (e RequestEnvelope) ApplicationID() string {
	if e.Context != nil && e.Context.System.Application.ApplicationID != "" {
		return e.Context.System.Application.ApplicationID
	}
	return e.Session.Application.ApplicationID
}

// ResponseEnvelope is the voice-platform response body.
type ResponseEnvelope struct {
	Version           string                 `json:"version"`
	SessionAttributes map[string]interface{} `json:"sessionAttributes,omitempty"`
	Response          ResponseBody           `json:"response"`
}

type ResponseBody struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *CardResponse `json:"card,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type CardResponse struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}
