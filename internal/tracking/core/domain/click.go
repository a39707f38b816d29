package domain

// Node is a DOM element as reported by the page, linked to its ancestors.
type Node struct {
	ID          string
	ClassName   string
	LocalName   string
	TextContent string
	Parent      *Node
}

// Attribute names accepted by MostSpecific.
const (
	AttrID        = "id"
	AttrClassName = "className"
)

// MostSpecific returns the attribute of the node itself or, when it is
// empty, of the closest ancestor that has it. The second result is false if
// no node in the chain carries the attribute.
func (n *Node) MostSpecific(attribute string) (string, bool) {
	for t := n; t != nil; t = t.Parent {
		var v string
		switch attribute {
		case AttrID:
			v = t.ID
		case AttrClassName:
			v = t.ClassName
		}
		if v != "" {
			return v, true
		}
	}
	return "", false
}

// Click is a mouse click reported by a page.
type Click struct {
	X, Y       float64
	Target     *Node
	ViewHeight int
	ViewWidth  int
	OwnerURL   string
}

// ClickRecord is the UserClicked payload.
type ClickRecord struct {
	Click  ClickDetail `json:"click"`
	Screen Screen      `json:"screen"`
	Owner  string      `json:"owner"`
}

type ClickDetail struct {
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Target ClickTarget `json:"target"`
}

type ClickTarget struct {
	ID    *string `json:"id,omitempty"`
	Class *string `json:"class,omitempty"`
	Name  string  `json:"name"`
	Text  string  `json:"text"`
}

type Screen struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}
