// Package migrations holds the schema history. Each migration registers
// itself from init(); importing the package for side effects is enough.
package migrations
