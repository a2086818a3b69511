package models

// Direction is one step of directions.json. Order in the document is the
// traversal order.
type Direction struct {
	Step string `json:"step"`
}
