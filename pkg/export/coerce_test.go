package export

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
)

type point struct{ lat, lng float64 }

func TestCoerce(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 30, 0, 500, time.UTC)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "bool", in: true, want: true},
		{name: "string", in: "x", want: "x"},
		{name: "int64", in: int64(7), want: int64(7)},
		{name: "float", in: 1.5, want: 1.5},
		{name: "nan", in: math.NaN(), want: "NaN"},
		{name: "inf", in: math.Inf(1), want: "+Inf"},
		{name: "timestamp", in: ts, want: "2024-03-09T14:30:00.0000005Z"},
		{name: "bytes", in: []byte("hi"), want: "aGk="},
		{name: "reference", in: &firestore.DocumentRef{Path: "projects/p/databases/(default)/documents/results/abc"}, want: "projects/p/databases/(default)/documents/results/abc"},
		{name: "nil reference", in: (*firestore.DocumentRef)(nil), want: nil},
		{name: "other", in: point{1, 2}, want: "{1 2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coerce(tt.in); got != tt.want {
				t.Errorf("Coerce(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerce_Nested(t *testing.T) {
	in := map[string]any{
		"when":  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"items": []any{math.Inf(-1), map[string]any{"raw": []byte{0xff}}},
	}

	got := Coerce(in)
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("coerced value does not encode: %v", err)
	}

	want := `{"items":["-Inf",{"raw":"/w=="}],"when":"2024-01-01T00:00:00Z"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
