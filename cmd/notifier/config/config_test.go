package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	c := &Config{}
	defaults(c)

	assert.Equal(t, ".*", c.BranchRegex)
	assert.Equal(t, "https://gitlab.com", c.Gitlab.URL)

	c = &Config{
		BranchRegex: "^main$",
		Gitlab:      Gitlab{URL: "https://gitlab.example.com"},
	}
	defaults(c)
	assert.Equal(t, "^main$", c.BranchRegex)
	assert.Equal(t, "https://gitlab.example.com", c.Gitlab.URL)
}

func TestEmailMappingDecode(t *testing.T) {
	var m EmailMapping
	err := m.Decode(`{"email_to_user_id":{"alice@x.com":"U123","bob@x.com":"U456"}}`)
	assert.Nil(t, err)
	assert.Equal(t, "U123", m["alice@x.com"])
	assert.Equal(t, "U456", m["bob@x.com"])
}

func TestEmailMappingDecodeEmpty(t *testing.T) {
	var m EmailMapping
	err := m.Decode("")
	assert.Nil(t, err)
	assert.Equal(t, 0, len(m))
}

func TestEmailMappingDecodeMalformed(t *testing.T) {
	var m EmailMapping
	err := m.Decode(`{"email_to_user_id":`)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(m))

	err = m.Decode(`{}`)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(m))
}
