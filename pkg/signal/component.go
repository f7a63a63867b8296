package signal

// Component binds a Logic module to a component role: a template that
// Node signals instantiate with props. LogicRef is a runtime-only
// back-reference to the full Logic signal, the same pattern Computed/
// Action/Handler use for their own Logic field, so the tokenizer can
// register the logic module the first time a component is reached
// without requiring it to already be registered elsewhere.
type Component struct {
	Id    string `json:"id"`
	K     Kind   `json:"kind"`
	Logic string `json:"logic"`

	LogicRef *Logic `json:"-"`
}

// DefineComponent defines a component signal. Its id is the logic's own
// id — a component is just a named role for a logic module, so two
// DefineComponent calls over the same logic collapse to the same id.
func DefineComponent(logic *Logic) *Component {
	return &Component{Id: logic.Id, K: KindComponent, Logic: logic.Id, LogicRef: logic}
}

func (c *Component) ID() string   { return c.Id }
func (c *Component) Kind() Kind   { return KindComponent }
func (c *Component) Clean() Signal {
	cp := *c
	return &cp
}
