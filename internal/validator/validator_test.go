package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name      string  `validate:"required"`
	Date      string  `validate:"required,isodate"`
	HoursType string  `validate:"required,hourstype"`
	Latitude  float64 `validate:"gte=-90,lte=90"`
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	valid := sample{Name: "GBM", Date: "2026-10-20", HoursType: "social", Latitude: 33.4}
	require.NoError(t, Validate(ctx, valid))

	tests := []struct {
		name   string
		mutate func(*sample)
		want   string
	}{
		{"missing name", func(s *sample) { s.Name = "" }, ErrFieldRequired + ": Name"},
		{"bad date", func(s *sample) { s.Date = "10/20/2026" }, ErrInvalidDate + ": Date"},
		{"bad hours type", func(s *sample) { s.HoursType = "fun" }, ErrInvalidHoursType + ": HoursType"},
		{"latitude too high", func(s *sample) { s.Latitude = 91 }, ErrFieldExceedsMax + ": Latitude"},
		{"latitude too low", func(s *sample) { s.Latitude = -91 }, ErrFieldBelowMin + ": Latitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := Validate(ctx, s)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}
