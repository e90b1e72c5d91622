// Package algo implements graph algorithms over tempograph views.
//
// Every algorithm takes a tempograph.GraphView, so the same code runs over
// the full history or any time window. Algorithms only use the public view
// surface; they hold no engine internals and can be copied as templates
// for custom analytics.
package algo
