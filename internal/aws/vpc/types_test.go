package vpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesiredState_Validate(t *testing.T) {
	valid := DesiredState{
		Name:       "app-vpc",
		CIDRBlock:  "10.0.0.0/16",
		Tenancy:    TenancyDefault,
		DNSSupport: true,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*DesiredState)
		want   string
	}{
		{
			name:   "empty name",
			mutate: func(d *DesiredState) { d.Name = "" },
			want:   "name",
		},
		{
			name:   "bad cidr",
			mutate: func(d *DesiredState) { d.CIDRBlock = "10.0.0.0" },
			want:   "cidr_block",
		},
		{
			name:   "unknown tenancy",
			mutate: func(d *DesiredState) { d.Tenancy = "shared" },
			want:   "tenancy",
		},
		{
			name: "hostnames without support",
			mutate: func(d *DesiredState) {
				d.DNSSupport = false
				d.DNSHostnames = true
			},
			want: "dns_hostnames",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)

			err := d.Validate()
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDesiredState_EffectiveTags(t *testing.T) {
	d := DesiredState{
		Name: "Y",
		Tags: map[string]string{"Name": "X", "env": "staging"},
	}

	got := d.EffectiveTags()
	assert.Equal(t, map[string]string{"Name": "Y", "env": "staging"}, got)

	// The desired state itself is left untouched.
	assert.Equal(t, "X", d.Tags["Name"])
}

func TestDesiredState_EffectiveTagsWithoutTags(t *testing.T) {
	d := DesiredState{Name: "app-vpc"}
	assert.Equal(t, map[string]string{"Name": "app-vpc"}, d.EffectiveTags())
}
