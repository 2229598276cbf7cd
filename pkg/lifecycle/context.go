package lifecycle

// Context bundles what a component sees during its hooks.
type Context[P, M any] struct {
	scope    *Scope[P, M]
	props    P
	mode     RenderMode
	prepared string
}

// Props returns the current props.
func (c *Context[P, M]) Props() P {
	return c.props
}

// Link returns the component's scope, used to send messages.
func (c *Context[P, M]) Link() *Scope[P, M] {
	return c.scope
}

// CreationMode returns the mode the instance was created in. It does not
// change when a hydrated instance goes live.
func (c *Context[P, M]) CreationMode() RenderMode {
	return c.mode
}

// PreparedState returns the state embedded by the server render, or "".
func (c *Context[P, M]) PreparedState() string {
	return c.prepared
}
