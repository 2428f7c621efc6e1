// Package mocks provides centralized mock implementations for testing.
//
// Each mock has one function field per interface method. When a field is
// nil the mock returns its default values instead, so a test only sets up
// the behavior it cares about:
//
//	svc := &mocks.MockFlashcardService{
//	    GenerateFn: func(ctx context.Context, notes string) ([]domain.FlashcardPair, error) {
//	        return nil, service.ErrEmptyNotes
//	    },
//	}
package mocks
