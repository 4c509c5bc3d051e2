package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_ConsentDefaults(t *testing.T) {
	t.Run("Fills defaults on a bare status", func(t *testing.T) {
		got := Normalize(Answer{"status": "YES"})

		assert.Equal(t, 3, got["intensity"])
		assert.Equal(t, false, got["hardNo"])
		assert.Equal(t, []any{}, got["contextFlags"])
		assert.NotContains(t, got, "confidence")
	})

	t.Run("Derives hardNo from top-level NO and HARD_LIMIT", func(t *testing.T) {
		assert.Equal(t, true, Normalize(Answer{"status": "NO"})["hardNo"])
		assert.Equal(t, true, Normalize(Answer{"status": "hard_limit"})["hardNo"])
		assert.Equal(t, false, Normalize(Answer{"status": "MAYBE"})["hardNo"])
	})

	t.Run("Sub-role statuses never drive hardNo", func(t *testing.T) {
		got := Normalize(Answer{"dom_status": "HARD_LIMIT", "sub_status": "NO"})
		assert.Equal(t, false, got["hardNo"])
	})

	t.Run("Keeps an explicit hardNo", func(t *testing.T) {
		got := Normalize(Answer{"status": "YES", "hardNo": true})
		assert.Equal(t, true, got["hardNo"])
	})

	t.Run("Clamps intensity and confidence", func(t *testing.T) {
		got := Normalize(Answer{"status": "YES", "intensity": 9.0, "confidence": "0"})
		assert.Equal(t, 5, got["intensity"])
		assert.Equal(t, 1, got["confidence"])
	})

	t.Run("Non-numeric intensity falls back to default", func(t *testing.T) {
		got := Normalize(Answer{"status": "YES", "intensity": "loud"})
		assert.Equal(t, 3, got["intensity"])
	})

	t.Run("Drops a confidence that cannot be coerced", func(t *testing.T) {
		got := Normalize(Answer{"status": "YES", "confidence": "very"})
		assert.NotContains(t, got, "confidence")
	})

	t.Run("Replaces a non-list contextFlags", func(t *testing.T) {
		got := Normalize(Answer{"status": "YES", "contextFlags": "tired"})
		assert.Equal(t, []any{}, got["contextFlags"])

		got = Normalize(Answer{"status": "YES", "contextFlags": []string{"tired"}})
		assert.Equal(t, []any{"tired"}, got["contextFlags"])
	})
}

func TestNormalize_PassThrough(t *testing.T) {
	in := Answer{"value": 7.0}
	got := Normalize(in)

	assert.Equal(t, Answer{"value": 7.0}, got)
	got["value"] = 1
	assert.Equal(t, 7.0, in["value"], "input must not be mutated")

	assert.Equal(t, Answer{}, Normalize(nil))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []Answer{
		nil,
		{},
		{"status": "YES", "interest": 3, "comfort": 4},
		{"status": "NO", "intensity": -4, "confidence": 12.7, "contextFlags": []any{"alcohol"}},
		{"dom_status": "YES", "sub_status": "MAYBE", "confidence": "bad"},
		{"active_status": "MAYBE", "hardNo": "weird", "contextFlags": 3},
		{"values": []any{"a", "b"}},
		{"text": "free form"},
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %v", in)
	}
}

func TestToInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{in: 3, want: 3, ok: true},
		{in: 3.9, want: 3, ok: true},
		{in: "4", want: 4, ok: true},
		{in: " 2 ", want: 2, ok: true},
		{in: "abc", ok: false},
		{in: "2.5", ok: false},
		{in: nil, ok: false},
		{in: true, ok: false},
		{in: []any{1}, ok: false},
	}
	for _, tc := range cases {
		got, ok := toInt(tc.in)
		assert.Equal(t, tc.ok, ok, "input %v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %v", tc.in)
		}
	}
}
