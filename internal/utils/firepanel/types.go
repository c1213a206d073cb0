package firepanel

// Device is one fire-alarm panel device as reported by the panel API.
// Kind values observed so far: "smoke_detector", "bell",
// "manual_call_point", "relay" — passed through, never persisted.
type Device struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Zone   string `json:"zone,omitempty"`
	Status string `json:"status"`
}

type devicesResponse struct {
	Devices []Device `json:"devices"`
}
