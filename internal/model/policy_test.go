package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, ExecutionPolicy{InterOpThreads: 1, IntraOpThreads: 1, Sequential: true}, p)
	assert.NoError(t, p.Validate())
	assert.Equal(t, "inter=1 intra=1 mode=sequential", p.String())
}

func TestPolicyValidate(t *testing.T) {
	cases := []struct {
		name string
		p    ExecutionPolicy
		ok   bool
	}{
		{"engine defaults", ExecutionPolicy{Sequential: true}, true},
		{"negative inter", ExecutionPolicy{InterOpThreads: -1, Sequential: true}, false},
		{"negative intra", ExecutionPolicy{IntraOpThreads: -1, Sequential: true}, false},
		{"parallel", ExecutionPolicy{InterOpThreads: 1, IntraOpThreads: 1}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.p.Validate()
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
