package models

// Color is an RGB cell background color with channels in [0, 1]. Placeholder
// categories that have no sheet color yet use out-of-range sentinel values.
type Color struct {
	Red   float64 `json:"red" yaml:"red"`
	Green float64 `json:"green" yaml:"green"`
	Blue  float64 `json:"blue" yaml:"blue"`
}
