// Package domain holds the types shared across modules: metric rows, typed
// result cells, query execution state and the error taxonomy.
//
// It has no infrastructure dependencies.
package domain
