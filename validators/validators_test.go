package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsernameValidator(t *testing.T) {
	assert.NoError(t, UsernameValidator("bob"))
	assert.Error(t, UsernameValidator("ab"))
	assert.Error(t, UsernameValidator(""))
}

func TestEmailValidator(t *testing.T) {
	assert.NoError(t, EmailValidator("user@example.com"))
	assert.Error(t, EmailValidator("not-an-email"))
	assert.Error(t, EmailValidator(""))
}

func TestPasswordValidator(t *testing.T) {
	assert.NoError(t, PasswordValidator("password123"))
	assert.Error(t, PasswordValidator("short"))
}
