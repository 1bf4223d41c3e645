package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("workflow", "42")
	if err.Code != ErrCodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["id"] != "42" {
		t.Fatalf("expected id detail, got %v", err.Details)
	}
	if err.Retryable {
		t.Fatal("not found should not be retryable")
	}
}

func TestDatabaseError_Retryable(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := DatabaseError(cause)
	if !err.Retryable {
		t.Fatal("database errors should be retryable")
	}
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to be unwrappable")
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := Validation("bad graph")
	if err.Error() != "INVALID_INPUT: bad graph" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}

	wrapped := Internal(stderrors.New("boom"))
	want := fmt.Sprintf("%s: %s (cause: boom)", ErrCodeInternal, wrapped.Message)
	if wrapped.Error() != want {
		t.Fatalf("unexpected error string: %s", wrapped.Error())
	}
}

func TestAsAppError(t *testing.T) {
	appErr := ExternalServiceError("llm", stderrors.New("timeout"))
	wrapped := fmt.Errorf("executing node: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError")
	}
	if got.Code != ErrCodeExternalService {
		t.Fatalf("unexpected code: %s", got.Code)
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Fatal("plain error should not convert")
	}
}

func TestToResponse(t *testing.T) {
	resp := MissingField("query").ToResponse()
	if resp.Error.Code != ErrCodeMissingField {
		t.Fatalf("unexpected code: %s", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "query" {
		t.Fatalf("unexpected details: %v", resp.Error.Details)
	}
}
