// Package domain contains the core entities of the flashcard service: the
// transient question/answer pair produced by generation and the persisted
// flashcard owned by the store. It is independent of any infrastructure.
package domain
