package timestamp

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeNil(t *testing.T) {
	if got := Normalize(nil); got != nil {
		t.Fatalf("Normalize(nil) = %v, want nil", got)
	}
}

func TestNormalizeEquivalentShapes(t *testing.T) {
	want := time.Unix(1700000000, 0).UTC()
	iso := want.Format(time.RFC3339)

	cases := []struct {
		name string
		raw  any
	}{
		{"seconds struct", map[string]any{"seconds": int64(1700000000), "nanoseconds": 0}},
		{"underscore seconds", map[string]any{"_seconds": float64(1700000000)}},
		{"json decoded", map[string]any{"_seconds": json.Number("1700000000"), "_nanoseconds": json.Number("0")}},
		{"iso string", iso},
		{"iso with millis", "2023-11-14T22:13:20.000Z"},
		{"native time", want.In(time.FixedZone("CST", 8*3600))},
		{"native pointer", &want},
		{"store timestamp", Timestamp{Seconds: 1700000000}},
		{"store timestamp pointer", &Timestamp{Seconds: 1700000000}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.raw)
			if got == nil {
				t.Fatalf("Normalize(%v) = nil", tc.raw)
			}
			if !got.Equal(want) {
				t.Fatalf("Normalize(%v) = %v, want %v", tc.raw, got, want)
			}
		})
	}
}

func TestNormalizeKeepsNanoseconds(t *testing.T) {
	got := Normalize(map[string]any{"seconds": 10, "nanoseconds": 500})
	if got == nil || got.Nanosecond() != 500 {
		t.Fatalf("Normalize() = %v, want 500ns", got)
	}
}

func TestNormalizeServerTimestamp(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	orig := Now
	Now = func() time.Time { return fixed }
	defer func() { Now = orig }()

	got := Normalize(ServerTimestamp{})
	if got == nil || !got.Equal(fixed) {
		t.Fatalf("Normalize(ServerTimestamp) = %v, want %v", got, fixed)
	}
}

func TestNormalizeUnrecognized(t *testing.T) {
	cases := []any{
		"not a date",
		"",
		42,
		map[string]any{"foo": 1},
		map[string]any{"seconds": "abc"},
		[]string{"x"},
		time.Time{},
	}
	for _, raw := range cases {
		if got := Normalize(raw); got != nil {
			t.Fatalf("Normalize(%#v) = %v, want nil", raw, got)
		}
	}
}

func TestNormalizeFields(t *testing.T) {
	fields := map[string]any{
		"title":      "Dune",
		"created_at": Timestamp{Seconds: 100},
		"meta": map[string]any{
			"updated_at": map[string]any{"_seconds": float64(200)},
		},
		"history": []any{Timestamp{Seconds: 300}, "plain"},
	}

	got := NormalizeFields(fields)

	if got["title"] != "Dune" {
		t.Fatalf("title = %v", got["title"])
	}
	if ts, ok := got["created_at"].(time.Time); !ok || ts.Unix() != 100 {
		t.Fatalf("created_at = %#v", got["created_at"])
	}
	meta := got["meta"].(map[string]any)
	if ts, ok := meta["updated_at"].(time.Time); !ok || ts.Unix() != 200 {
		t.Fatalf("meta.updated_at = %#v", meta["updated_at"])
	}
	history := got["history"].([]any)
	if ts, ok := history[0].(time.Time); !ok || ts.Unix() != 300 {
		t.Fatalf("history[0] = %#v", history[0])
	}
	if history[1] != "plain" {
		t.Fatalf("history[1] = %#v", history[1])
	}
	if _, ok := fields["created_at"].(Timestamp); !ok {
		t.Fatal("input map was mutated")
	}
}

func TestTimestampJSONShape(t *testing.T) {
	b, err := json.Marshal(Timestamp{Seconds: 5, Nanoseconds: 7})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := Normalize(m)
	if got == nil || got.Unix() != 5 || got.Nanosecond() != 7 {
		t.Fatalf("round trip = %v", got)
	}
}

type protoLike struct {
	sec int64
}

func (p *protoLike) AsTime() time.Time {
	return time.Unix(p.sec, 0)
}

func TestNormalizeTypedNilTimer(t *testing.T) {
	var nilTimer *protoLike
	if got := Normalize(nilTimer); got != nil {
		t.Fatalf("Normalize(typed nil) = %v, want nil", got)
	}
	if IsTimestampLike(nilTimer) {
		t.Fatalf("IsTimestampLike(typed nil) = true")
	}

	got := Normalize(&protoLike{sec: 1700000000})
	if got == nil || !got.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("Normalize(timer) = %v", got)
	}
}
