// Package vdom provides the view tree produced by component view hooks.
//
// VNode is the building block representing elements, text, fragments,
// nested components and raw HTML. Elements are created with variadic
// factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	)
//
// Nested components are carried by KindComponent nodes whose Comp field
// is supplied by the lifecycle runtime; this package never instantiates
// them itself.
package vdom
