// Package calculator provides a small arithmetic tool, handy for exercising a
// reasoning loop without network access.
package calculator
