// Package schema defines the tree capability the host works against and a
// minimal set of concrete trees. A Container holds Fields addressed by dotted
// component keys ("contact.details.email") and bound to dotted state paths
// ("data.email"). Forms contribute validation rules, attribute labels and
// pre-validation mutation (including bluemonday sanitising); Infolists are
// read-only and contribute nothing to validation. Container, Form and
// Infolist implement Maker with nil-safe receivers, so the zero value of a
// declared tree type can build a fresh instance for its owner.
package schema
