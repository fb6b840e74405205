package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"select 1", "select 1"},
		{"  select   stars  ", " select stars "},
		{"SELECT\tfull_name\nFROM\r\tprograms WHERE  stars >=  $1", "SELECT full_name FROM programs WHERE stars >= $1"},
		{"\n\nUPDATE\n\tprograms  SET\r\nstars = $1", " UPDATE programs SET stars = $1"},
		{"", ""},
	}
	for i, c := range cases {
		if got := compact(c.in); got != c.want {
			t.Fatalf("case %d: compact(%q) = %q, want %q", i, c.in, got, c.want)
		}
	}
}

type traceLine struct {
	Level     string  `json:"level"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Slow      bool    `json:"slow"`
	SQL       string  `json:"sql"`
	Args      any     `json:"args"`
	Error     string  `json:"error"`
	Message   string  `json:"message"`
	Component string  `json:"component"`
}

func TestTracerLevelsAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf))

	ev := QueryEvent{
		SQL:       "SELECT  full_name \n FROM  programs\tWHERE stars >= $1",
		Args:      []any{500, "amm"},
		ElapsedUS: 12345,
		Err:       errors.New("boom"),
	}
	tr.OnQuery(context.Background(), ev)

	var line traceLine
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("unmarshal: %v\nraw=%s", err, buf.String())
	}
	if line.Level != "info" {
		t.Fatalf("fast query level = %q", line.Level)
	}
	if line.SQL != "SELECT full_name FROM programs WHERE stars >= $1" {
		t.Fatalf("sql not compacted: %q", line.SQL)
	}
	if math.Abs(line.ElapsedMS-12.345) > 0.0005 {
		t.Fatalf("elapsed_ms = %v", line.ElapsedMS)
	}
	if arr, ok := line.Args.([]any); !ok || len(arr) != 2 || arr[0].(float64) != 500 {
		t.Fatalf("args unexpected: %#v", line.Args)
	}
	if line.Error != "boom" || line.Message != "pg query" || line.Component != "pg" {
		t.Fatalf("fields mismatch: %+v", line)
	}

	// slow statements warn
	buf.Reset()
	ev.Slow = true
	tr.OnQuery(context.Background(), ev)
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("unmarshal warn: %v", err)
	}
	if line.Level != "warn" || !line.Slow {
		t.Fatalf("slow query should warn: %+v", line)
	}
}

func TestTracerVisibleAboveRootLevel(t *testing.T) {
	t.Parallel()

	// SQL logging stays on even when the root logger is quieter than info
	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel))
	tr.OnQuery(context.Background(), QueryEvent{SQL: "select 1"})
	if buf.Len() == 0 {
		t.Fatal("tracer output suppressed by root level")
	}
}
