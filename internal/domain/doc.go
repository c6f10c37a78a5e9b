// Package domain contains the entities persisted by the vision screening
// data store: user accounts and the five kinds of test result. It has no
// knowledge of SQL or of how the entities are stored.
package domain
