package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code, col, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		ColumnName:     col,
		ConstraintName: constraint,
	}
}

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23503", ErrorCodeInvalidArgument},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"22001", ErrorCodeInvalidArgument},
		{"22P02", ErrorCodeInvalidArgument},
		{"40001", ErrorCodeDB},
		{"40P01", ErrorCodeDB},
		{"55P03", ErrorCodeDB},
		{"25006", ErrorCodeUnavailable},
		{"57P03", ErrorCodeUnavailable},
		{"XXXXX", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pg(c.code, "", ""))
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}

	if _, ok := DBErrorCode(stderrs.New("not a pg error")); ok {
		t.Fatalf("DBErrorCode should return ok=false for non-pg error")
	}
}

func TestDBErrorCodeSeesThroughWrapping(t *testing.T) {
	// repos hand back already-wrapped errors; the mapping must still fire
	inner := fmt.Errorf("upsert program Project-Serum/serum-dex: %w", pg("23505", "", ""))
	code, ok := DBErrorCode(inner)
	if !ok || code != ErrorCodeDuplicateKey {
		t.Fatalf("wrapped PgError not mapped: ok=%v code=%v", ok, code)
	}
}

func TestFromPostgresVariants(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}
	if FromPostgresf(nil, "x %d", 1) != nil {
		t.Fatalf("FromPostgresf(nil) should be nil")
	}

	err := FromPostgres(pg("23505", "", ""), "upsert program")
	if CodeOf(err) != ErrorCodeDuplicateKey {
		t.Fatalf("FromPostgres map code = %v", CodeOf(err))
	}
	errf := FromPostgresf(pg("22P02", "", ""), "load checkpoint %s", "scout")
	if CodeOf(errf) != ErrorCodeInvalidArgument {
		t.Fatalf("FromPostgresf code = %v, want %v", CodeOf(errf), ErrorCodeInvalidArgument)
	}

	// non-pg storage failures still come back coded
	plain := FromPostgres(stderrs.New("conn closed"), "save checkpoint")
	if CodeOf(plain) != ErrorCodeDB {
		t.Fatalf("FromPostgres non-pg code = %v, want %v", CodeOf(plain), ErrorCodeDB)
	}
}

func TestFromPostgresWithField(t *testing.T) {
	// column metadata wins
	err := FromPostgresWithField(pg("23502", "stars", ""), "upsert program")
	e, ok := As(err)
	if !ok || e.Field() != "stars" || e.Code() != ErrorCodeValidation {
		t.Fatalf("column-name field failed: %+v", e)
	}

	// constraint name fallback: last token
	err = FromPostgresWithField(pg("23505", "", "programs_full_name"), "upsert program")
	e, ok = As(err)
	if !ok || e.Field() != "name" || e.Code() != ErrorCodeDuplicateKey {
		t.Fatalf("constraint token field failed: %+v", e)
	}

	// bare index suffixes carry no field information
	for _, constraint := range []string{"programs_pkey", "programs_full_name_key", "programs_category_check"} {
		err = FromPostgresWithField(pg("23505", "", constraint), "upsert program")
		e, ok = As(err)
		if !ok {
			t.Fatalf("expected project error for %s", constraint)
		}
		if e.Field() != "" {
			t.Fatalf("suffix token from %s should not become a field, got %q", constraint, e.Field())
		}
	}

	// non-pg error keeps its shape
	other := FromPostgresWithField(stderrs.New("x"), "remove program")
	e, ok = As(other)
	if !ok || e.Field() != "" || e.Code() != ErrorCodeDB {
		t.Fatalf("non-pg error mishandled: %+v", e)
	}
}

func TestIsRetryable(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		if !IsRetryable(pg(code, "", "")) {
			t.Fatalf("%s should be retryable", code)
		}
	}
	if IsRetryable(pg("23505", "", "")) {
		t.Fatalf("unique violation should not be retryable")
	}
	if IsRetryable(nil) {
		t.Fatalf("nil should not be retryable")
	}
	if IsRetryable(stderrs.New("parse failure")) {
		t.Fatalf("arbitrary error should not be retryable")
	}
}

func TestIsRetryableCommitText(t *testing.T) {
	// pgx reports a serialization abort discovered at commit as plain text
	err := stderrs.New("ERROR: commit unexpectedly resulted in rollback")
	if !IsRetryable(err) {
		t.Fatalf("commit rollback text should be retryable")
	}
	if !IsRetryable(fmt.Errorf("persist: %w", stderrs.New("deadlock detected"))) {
		t.Fatalf("deadlock text should be retryable through wrapping")
	}
}

func TestIsRetryableRespectsCancellation(t *testing.T) {
	if IsRetryable(context.Canceled) {
		t.Fatalf("context.Canceled should not be retryable")
	}
	if IsRetryable(fmt.Errorf("merge: %w", context.DeadlineExceeded)) {
		t.Fatalf("deadline exceeded should not be retryable")
	}
	// retryable SQLSTATE under a canceled context still loses
	wrapped := fmt.Errorf("%w: %v", context.Canceled, pg("40001", "", ""))
	if IsRetryable(wrapped) {
		t.Fatalf("cancellation must override retryable SQLSTATE")
	}
}
