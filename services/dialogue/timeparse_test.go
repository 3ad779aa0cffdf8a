package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLooseTime(t *testing.T) {
	slots := []string{"08:00", "08:30", "14:00", "14:30"}

	cases := []struct {
		in   string
		want string
	}{
		{"14:00", "14:00"},
		{"2pm", "14:00"},
		{"02:30 p.m", "14:30"},
		{"8", "08:00"},
		{"08:30", "08:30"},
		{"12 am", "00:00"},
		// No 02:00 slot, 14:00 exists, so a bare "2" reads as PM.
		{"2", "14:00"},
		{"a las 8", "08:00"},
	}
	for _, c := range cases {
		got, ok := ParseLooseTime(c.in, slots)
		assert.True(t, ok, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestParseLooseTimeRejectsNonTimes(t *testing.T) {
	_, ok := ParseLooseTime("cuando puedas", nil)
	assert.False(t, ok)
	_, ok = ParseLooseTime("", nil)
	assert.False(t, ok)
}

func TestParseLooseTimeKeepsMorningWhenBothExist(t *testing.T) {
	slots := []string{"08:00", "20:00"}
	got, ok := ParseLooseTime("8", slots)
	assert.True(t, ok)
	assert.Equal(t, "08:00", got)
}

func TestTo12Hour(t *testing.T) {
	assert.Equal(t, "08:00 AM", To12Hour("08:00"))
	assert.Equal(t, "02:30 PM", To12Hour("14:30"))
	assert.Equal(t, "12:00 PM", To12Hour("12:00"))
	assert.Equal(t, "12:15 AM", To12Hour("00:15"))
	assert.Equal(t, "garbage", To12Hour("garbage"))
}
