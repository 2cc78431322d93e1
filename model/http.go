package model

type Transition struct {
	Pitch    uint8  `json:"pitch"`
	Duration uint32 `json:"duration"`
	Count    int    `json:"count"`
}

type InspectResponse struct {
	Tracks         int           `json:"tracks"`
	States         int           `json:"states"`
	TotalChains    int           `json:"total_chains"`
	TotalFrequency int           `json:"total_frequency"`
	StartingNotes  int           `json:"starting_notes"`
	Starts         []Transition  `json:"starts"`
	Pitches        map[uint8]int `json:"pitches"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
