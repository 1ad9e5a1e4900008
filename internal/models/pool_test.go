package models

import (
	"encoding/json"
	"testing"
)

func TestFlexFloat_Unmarshal(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
		want  float64
	}{
		{`12.5`, true, 12.5},
		{`"98765.43"`, true, 98765.43},
		{`" 7 "`, true, 7},
		{`null`, false, 0},
		{`""`, false, 0},
		{`"abc"`, false, 0},
		{`"NaN"`, false, 0},
		{`true`, false, 0},
		{`{}`, false, 0},
	}
	for _, tt := range tests {
		var f FlexFloat
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("Unmarshal(%s) err=%v", tt.in, err)
		}
		if f.Valid != tt.valid || f.Value != tt.want {
			t.Fatalf("Unmarshal(%s)=%+v want valid=%v value=%v", tt.in, f, tt.valid, tt.want)
		}
	}
}

func TestFlexFloat_MissingField(t *testing.T) {
	var p RawPool
	if err := json.Unmarshal([]byte(`{"address":"a"}`), &p); err != nil {
		t.Fatalf("err=%v", err)
	}
	if p.TradeVolume24h.Valid || p.TradeVolume24h.OrZero() != 0 {
		t.Fatalf("volume=%+v want absent", p.TradeVolume24h)
	}
}

func TestFlexFloat_Marshal(t *testing.T) {
	b, err := json.Marshal(struct {
		A FlexFloat `json:"a"`
		B FlexFloat `json:"b"`
	}{A: NewFlexFloat(1.5)})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if string(b) != `{"a":1.5,"b":null}` {
		t.Fatalf("got=%s", b)
	}
}
