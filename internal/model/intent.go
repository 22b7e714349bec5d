package model

const (
	RequestLaunch       = "LaunchRequest"
	RequestIntent       = "IntentRequest"
	RequestSessionEnded = "SessionEndedRequest"
)

const (
	CardSimple   = "Simple"
	CardStandard = "Standard"
)

type IntentRequest struct {
	Kind       string
	Name       string
	Slots      map[string]string
	SessionNew bool
	RequestID  string
}

// Slot returns the slot value or an empty string.
func (r IntentRequest) Slot(name string) string {
	if r.Slots == nil {
		return ""
	}
	return r.Slots[name]
}

type Card struct {
	Kind  string
	Title string
	Body  string
}

type Response struct {
	Speech              string
	Reprompt            string
	Card                *Card
	ExpectsFurtherInput bool
	NoContent           bool
}
