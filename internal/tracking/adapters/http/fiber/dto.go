package fiber

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"usage-telemetry-service/internal/tracking/core/domain"
)

// WheelRequest carries wheel events captured by a page.
// @Description Batch of wheel events
type WheelRequest struct {
	Events []WheelEventDTO `json:"events"`
}

// WheelEventDTO is one wheel event. Missing numbers are treated as NaN.
type WheelEventDTO struct {
	TimeStamp *float64 `json:"time_stamp" example:"1712.5"`
	DeltaY    *float64 `json:"delta_y" example:"-120"`
	Owner     string   `json:"owner" example:"https://chat.example/team/channels/town-square"`
}

func (w WheelEventDTO) toDomain() domain.RawEvent {
	return domain.RawEvent{
		TimeStamp: orNaN(w.TimeStamp),
		Magnitude: orNaN(w.DeltaY),
		Origin:    w.Owner,
	}
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// ClickRequest is a click reported by a page.
// @Description Click with its target node chain
type ClickRequest struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Target *NodeDTO  `json:"target"`
	Screen ScreenDTO `json:"screen"`
	Owner  string    `json:"owner"`
}

// NodeDTO is a DOM element and, through Parent, its ancestors.
type NodeDTO struct {
	ID          string   `json:"id"`
	ClassName   string   `json:"class_name"`
	LocalName   string   `json:"local_name"`
	TextContent string   `json:"text_content"`
	Parent      *NodeDTO `json:"parent,omitempty"`
}

type ScreenDTO struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

func (r ClickRequest) toDomain() domain.Click {
	return domain.Click{
		X:          r.X,
		Y:          r.Y,
		Target:     r.Target.toDomain(),
		ViewHeight: r.Screen.Height,
		ViewWidth:  r.Screen.Width,
		OwnerURL:   r.Owner,
	}
}

func (n *NodeDTO) toDomain() *domain.Node {
	var head, tail *domain.Node
	for cur := n; cur != nil; cur = cur.Parent {
		node := &domain.Node{
			ID:          cur.ID,
			ClassName:   cur.ClassName,
			LocalName:   cur.LocalName,
			TextContent: cur.TextContent,
		}
		if head == nil {
			head = node
		} else {
			tail.Parent = node
		}
		tail = node
	}
	return head
}

// ErrorRequest is an uncaught script error. Line and column may be sent as
// numbers or strings.
// @Description Client script error
type ErrorRequest struct {
	Msg    string     `json:"msg" example:"Uncaught TypeError: x is undefined"`
	URL    string     `json:"url" example:"https://chat.example/static/main.js"`
	Line   LooseValue `json:"line" swaggertype:"string" example:"12"`
	Column LooseValue `json:"column" swaggertype:"string" example:"7"`
	Stack  string     `json:"stack"`
}

func (r ErrorRequest) toDomain() domain.ClientError {
	return domain.ClientError{
		Message: r.Msg,
		URL:     r.URL,
		Line:    string(r.Line),
		Column:  string(r.Column),
		Stack:   r.Stack,
	}
}

// LooseValue accepts a JSON string, number or null and keeps its text.
type LooseValue string

func (v *LooseValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = LooseValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		*v = LooseValue(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*v = LooseValue(n.String())
	return nil
}

type AcceptedResponse struct {
	Status string `json:"status" example:"accepted"`
	Count  int    `json:"count" example:"3"`
}

type ExperimentResponse struct {
	Key   string `json:"key" example:"EXPERIMENT1_GROUP"`
	Group string `json:"group" example:"control"`
}

type LastErrorResponse struct {
	Type    string `json:"type" example:"developer"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_json"`
	Message string `json:"message,omitempty" example:"events list is empty"`
}
