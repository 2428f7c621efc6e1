// Package service contains the application use cases of the flashcard
// service. It coordinates the generator, which turns notes into candidate
// question/answer pairs, with the flashcard store, which persists the pairs
// a client accepts.
//
// Services receive their dependencies through constructor injection and
// depend only on interfaces: the store package defines the persistence
// port and the generation package the generator. Errors returned from this
// package are either sentinels (checked with errors.Is) or a
// FlashcardServiceError wrapping the underlying cause; the API layer maps
// both to HTTP status codes.
package service
