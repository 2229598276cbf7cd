// Package dom holds position markers and small helpers over the in-memory
// DOM used by live and hydrating render targets.
//
// Nodes are golang.org/x/net/html nodes. A Slot names a position inside a
// parent: directly before a node, at the end of the parent, or wherever
// another DynamicSlot currently points. A DynamicSlot is a reassignable
// slot shared between a component and the siblings that render in front
// of it, so a component that re-renders can move its own position without
// its neighbours re-rendering.
package dom
