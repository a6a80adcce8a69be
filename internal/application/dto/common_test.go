package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	cases := []struct {
		in, want PageRequest
	}{
		{PageRequest{}, PageRequest{Limit: 20}},
		{PageRequest{Limit: 5, Offset: 10}, PageRequest{Limit: 5, Offset: 10}},
		{PageRequest{Limit: 500, Offset: -3}, PageRequest{Limit: 100}},
		{PageRequest{Limit: -1}, PageRequest{Limit: 20}},
	}
	for _, tc := range cases {
		p := tc.in
		p.DefaultPage()
		assert.Equal(t, tc.want, p)
	}
}
