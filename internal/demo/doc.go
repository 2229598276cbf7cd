// Package demo is the component tree served and rendered by the
// vango-lifecycle command. It uses messages, nested children with props,
// a Suspense boundary and prepared state.
package demo
