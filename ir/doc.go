// Package ir defines the in-memory form of a HEDL document: the header
// tables (version, aliases, struct schemas, nesting rules) and the body tree
// of objects, key-value pairs and typed matrix lists. Objects and tables
// preserve insertion order; serialization decides ordering, the model does
// not. The package also carries the shared Error type whose kinds classify
// every failure a document can produce.
package ir
