package question

// Shape enumerates the kinds of answer field a scraped question can carry.
type Shape string

const (
	ShapeFreeText     Shape = "free_text"
	ShapeSingleChoice Shape = "single_choice"
	ShapeMultiChoice  Shape = "multi_choice"
	ShapeDropdown     Shape = "dropdown"
)

// Valid reports whether s is one of the known answer shapes.
func (s Shape) Valid() bool {
	switch s {
	case ShapeFreeText, ShapeSingleChoice, ShapeMultiChoice, ShapeDropdown:
		return true
	}
	return false
}

// Choice reports whether the shape is answered by picking from options.
func (s Shape) Choice() bool {
	return s == ShapeSingleChoice || s == ShapeMultiChoice || s == ShapeDropdown
}

// Question is a quiz question scraped from a page by the browser automation.
// It is immutable once built; the solver never mutates it.
type Question struct {
	Text    string   `json:"text"`
	Shape   Shape    `json:"shape"`
	Options []string `json:"options,omitempty"`
}
