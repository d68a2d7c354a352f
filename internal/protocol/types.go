package protocol

// EventEnvelope is one host event sent to the bridge as JSON.
type EventEnvelope struct {
	Kind   string  `json:"kind"`             // command | menu | key
	Args   *string `json:"args,omitempty"`   // command only
	Target *Target `json:"target,omitempty"` // menu only
	Key    string  `json:"key,omitempty"`    // key only
	Mods   *Mods   `json:"mods,omitempty"`   // key only
}

// Target describes the entity a menu query is about.
type Target struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Mods is the modifier set of a key event. Omitted flags are false.
type Mods struct {
	Ctrl  bool `json:"ctrl,omitempty"`
	Alt   bool `json:"alt,omitempty"`
	Shift bool `json:"shift,omitempty"`
}

// ResultEnvelope is the bridge's answer. Handled=false with nothing else set
// means the host should process the event itself.
type ResultEnvelope struct {
	Handled bool       `json:"handled"`
	Menu    []MenuItem `json:"menu,omitempty"`
	Signals []string   `json:"signals,omitempty"`
}

// MenuItem is one contributed context-menu entry.
type MenuItem struct {
	Label   string `json:"label"`
	Command string `json:"command"`
}
