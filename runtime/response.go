// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

// ContractAddressKey is the first attribute of every event a contract emits.
const ContractAddressKey = "_contract_address"

type Attribute struct {
	Key   string
	Value string
}

// Event is a typed, ordered list of attributes.
type Event struct {
	Type       string
	Attributes []Attribute
}

func NewEvent(typ string) Event {
	return Event{Type: typ}
}

func (e Event) AddAttribute(key, value string) Event {
	e.Attributes = append(e.Attributes, Attribute{Key: key, Value: value})
	return e
}

// Attr returns the value of the first attribute named key.
func (e Event) Attr(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Response is what a contract returns from Execute or Reply.
type Response struct {
	Attributes []Attribute
	Events     []Event
	Messages   []SubMsg
}

func NewResponse() *Response {
	return &Response{}
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

func (r *Response) AddEvent(e Event) *Response {
	r.Events = append(r.Events, e)
	return r
}

// AddMessage appends a message whose result is never reported back.
func (r *Response) AddMessage(msg Msg) *Response {
	return r.AddSubMessage(SubMsg{Msg: msg, ReplyOn: ReplyNever})
}

func (r *Response) AddSubMessage(sub SubMsg) *Response {
	r.Messages = append(r.Messages, sub)
	return r
}

// Attr returns the value of the first response attribute named key.
func (r *Response) Attr(key string) (string, bool) {
	return Event{Attributes: r.Attributes}.Attr(key)
}

// Result is the outcome of a committed top-level execution.
type Result struct {
	Events []Event
}

// EventsOf returns the events of the given type in emission order.
func (r *Result) EventsOf(typ string) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
