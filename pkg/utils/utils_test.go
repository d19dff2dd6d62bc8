package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenvFallbacks(t *testing.T) {
	t.Setenv("GYM_TEST_STR", "  value ")
	t.Setenv("GYM_TEST_INT", "12")
	t.Setenv("GYM_TEST_BAD_INT", "twelve")
	t.Setenv("GYM_TEST_BOOL", "true")
	t.Setenv("GYM_TEST_BAD_BOOL", "maybe")

	assert.Equal(t, "value", Getenv("GYM_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", Getenv("GYM_TEST_UNSET", "fallback"))
	assert.Equal(t, 12, GetenvInt("GYM_TEST_INT", 3))
	assert.Equal(t, 3, GetenvInt("GYM_TEST_BAD_INT", 3))
	assert.True(t, GetenvBool("GYM_TEST_BOOL", false))
	assert.True(t, GetenvBool("GYM_TEST_BAD_BOOL", true))
	assert.False(t, GetenvBool("GYM_TEST_UNSET", false))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("member@gym.test"))
	assert.True(t, IsValidEmail(" Member.One+tag@Gym.Test "))
	assert.False(t, IsValidEmail("member@gym"))
	assert.False(t, IsValidEmail("member.gym.test"))
	assert.False(t, IsValidEmail(""))
}

func TestStringHelpers(t *testing.T) {
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty(" a "))
	assert.Nil(t, NewNullString("  "))
	if s := NewNullString(" Yoga "); assert.NotNil(t, s) {
		assert.Equal(t, "Yoga", *s)
	}
	assert.True(t, IsValidPasswordLength("secret", 6))
	assert.False(t, IsValidPasswordLength("short", 6))
}

func TestConversions(t *testing.T) {
	id, err := StrToInt64("15")
	assert.NoError(t, err)
	assert.Equal(t, int64(15), id)

	_, err = StrToInt64("abc")
	assert.Error(t, err)

	assert.Equal(t, 154000.0, RoundMoney(154000.004))
	assert.Equal(t, 10.13, RoundMoney(10.125001))
}
