package entity

// Player is one side of a match. ID is the opaque identifier of the
// transport connection; it is the only identity concept at this layer.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mark   string `json:"symbol"`
	Accent string `json:"color"`
}
