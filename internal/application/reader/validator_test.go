package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mizutori/nosread/pkg/domain"
)

func TestValidatorAcceptsWellFormedFilters(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(domain.Filter{Kinds: []int{1}, Limit: 1}))
	assert.NoError(t, v.Validate(domain.Filter{Kinds: []int{0, 30023}, Limit: 100}))
	assert.NoError(t, v.Validate(domain.Filter{
		Kinds:      []int{1},
		Limit:      10,
		TagFilters: map[string]string{"t": "golang"},
	}))
}

func TestValidatorRejectsMalformedFilters(t *testing.T) {
	v := NewValidator()

	cases := map[string]domain.Filter{
		"no kinds":        {Limit: 10},
		"negative kind":   {Kinds: []int{-1}, Limit: 10},
		"zero limit":      {Kinds: []int{1}},
		"negative limit":  {Kinds: []int{1}, Limit: -5},
		"empty tag name":  {Kinds: []int{1}, Limit: 10, TagFilters: map[string]string{"": "v"}},
		"hashed tag name": {Kinds: []int{1}, Limit: 10, TagFilters: map[string]string{"#t": "v"}},
		"empty tag value": {Kinds: []int{1}, Limit: 10, TagFilters: map[string]string{"t": ""}},
	}

	for name, filter := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, v.Validate(filter))
		})
	}
}
