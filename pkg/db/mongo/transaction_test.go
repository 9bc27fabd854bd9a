package mongo

import (
	"errors"
	"fmt"
	"testing"

	apperrors "fleetbook/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

func transientDriverError() error {
	return mongo.CommandError{
		Code:    112,
		Message: "WriteConflict",
		Labels:  []string{"TransientTransactionError"},
	}
}

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{
			{Code: 11000, Message: "E11000 duplicate key error"},
		},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantTransient bool
		wantDuplicate bool
	}{
		{"nil", nil, false, false},
		{"labeled write conflict", transientDriverError(), true, false},
		{"duplicate key", duplicateKeyError(), false, true},
		{"plain driver error", mongo.CommandError{Code: 13, Message: "Unauthorized"}, false, false},
		{"arbitrary error", errors.New("network down"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := Classify(tt.err)

			if tt.err == nil {
				if classified != nil {
					t.Fatalf("Classify(nil) = %v", classified)
				}
				return
			}

			if got := IsTransient(classified); got != tt.wantTransient {
				t.Errorf("IsTransient() = %v, want %v", got, tt.wantTransient)
			}
			if got := IsDuplicate(classified); got != tt.wantDuplicate {
				t.Errorf("IsDuplicate() = %v, want %v", got, tt.wantDuplicate)
			}
		})
	}
}

func TestClassify_PreservesCause(t *testing.T) {
	cause := errors.New("network down")
	classified := Classify(fmt.Errorf("insert failed: %w", cause))

	if !errors.Is(classified, cause) {
		t.Error("the original cause must stay reachable through the classified error")
	}
}

func TestClassify_WrappedLabelStillDetected(t *testing.T) {
	wrapped := fmt.Errorf("commit failed: %w", transientDriverError())

	if !IsTransient(Classify(wrapped)) {
		t.Error("the transient label must be found through wrapping")
	}
}

func TestConflictError_Error(t *testing.T) {
	transient := &ConflictError{Kind: KindTransient, Err: errors.New("WriteConflict")}
	if transient.Error() != "transient write conflict: WriteConflict" {
		t.Errorf("unexpected message: %s", transient.Error())
	}

	duplicate := &ConflictError{Kind: KindDuplicate, Err: errors.New("E11000")}
	if duplicate.Error() != "duplicate key conflict: E11000" {
		t.Errorf("unexpected message: %s", duplicate.Error())
	}
}

func TestIsTransient_RejectsOtherErrors(t *testing.T) {
	if IsTransient(errors.New("plain")) {
		t.Error("plain errors are not transient conflicts")
	}
	if IsTransient(apperrors.SlotUnavailable("taken")) {
		t.Error("business conflicts are never transient")
	}
	if IsTransient(nil) {
		t.Error("nil is not a conflict")
	}
}
