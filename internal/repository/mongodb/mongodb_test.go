package mongodb

import (
	"errors"
	"fmt"
	"testing"

	domainRepo "mediconnect/internal/domain/repository"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestTranslateError(t *testing.T) {
	duplicate := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}

	tests := []struct {
		name      string
		err       error
		duplicate bool
	}{
		{"duplicate key write", duplicate, true},
		{"wrapped duplicate key", fmt.Errorf("insert patient: %w", duplicate), true},
		{"duplicate key command", mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"}, true},
		{"other write error", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 121, Message: "Document failed validation"}}}, false},
		{"non mongo error", errors.New("server selection timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			if tt.duplicate {
				if got != domainRepo.ErrDuplicateKey {
					t.Errorf("translateError(%v) = %v, want ErrDuplicateKey", tt.err, got)
				}
				return
			}
			if got == domainRepo.ErrDuplicateKey || got.Error() != tt.err.Error() {
				t.Errorf("translateError(%v) = %v, want it unchanged", tt.err, got)
			}
		})
	}

	if got := translateError(nil); got != nil {
		t.Errorf("translateError(nil) = %v", got)
	}
}
