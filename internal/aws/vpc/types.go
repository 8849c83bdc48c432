package vpc

import (
	"fmt"
	"maps"
	"net"
)

// Tenancy is the placement isolation mode for instances launched into a VPC.
// It cannot be changed after the VPC has been created.
type Tenancy string

const (
	TenancyDefault   Tenancy = "default"
	TenancyDedicated Tenancy = "dedicated"
)

// DesiredState describes the VPC a caller wants to exist (or not exist).
// The zero value is not valid; Name and CIDRBlock are required.
type DesiredState struct {
	Name          string            `yaml:"name"`
	CIDRBlock     string            `yaml:"cidr_block"`
	Tenancy       Tenancy           `yaml:"tenancy"`
	DNSSupport    bool              `yaml:"dns_support"`
	DNSHostnames  bool              `yaml:"dns_hostnames"`
	DHCPOptionsID string            `yaml:"dhcp_options_id"`
	Tags          map[string]string `yaml:"tags"`

	// AllowDuplicates permits creating a VPC even when one with the same
	// name and CIDR already exists. Without it, multiple matches abort.
	AllowDuplicates bool `yaml:"multi_ok"`
}

// Validate checks the desired state before any remote call is made.
func (d DesiredState) Validate() error {
	if d.Name == "" {
		return &ValidationError{Reason: "name must not be empty"}
	}
	if _, _, err := net.ParseCIDR(d.CIDRBlock); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("cidr_block %q is not a valid CIDR", d.CIDRBlock)}
	}
	switch d.Tenancy {
	case TenancyDefault, TenancyDedicated:
	default:
		return &ValidationError{Reason: fmt.Sprintf("tenancy must be %q or %q, got %q", TenancyDefault, TenancyDedicated, d.Tenancy)}
	}
	if d.DNSHostnames && !d.DNSSupport {
		return &ValidationError{Reason: "dns_hostnames requires dns_support to be enabled"}
	}
	return nil
}

// EffectiveTags returns the desired tag set with the Name tag folded in.
// The desired name always wins over a "Name" key supplied in Tags.
func (d DesiredState) EffectiveTags() map[string]string {
	tags := make(map[string]string, len(d.Tags)+1)
	maps.Copy(tags, d.Tags)
	tags["Name"] = d.Name
	return tags
}

// VPC is the observed state of a VPC as last reported by EC2. The JSON
// field names match the record the reconcile command prints.
type VPC struct {
	ID            string            `json:"id"`
	CIDRBlock     string            `json:"cidr_block"`
	State         string            `json:"state"`
	Tags          map[string]string `json:"tags"`
	DHCPOptionsID string            `json:"dhcp_options_id"`
	Tenancy       Tenancy           `json:"instance_tenancy"`
	IsDefault     bool              `json:"is_default"`

	// ClassicLink was retired by EC2; kept for output compatibility,
	// always false.
	ClassicLinkEnabled bool `json:"classic_link_enabled"`
}

// ReconcileResult reports whether a reconciliation changed anything and the
// resulting VPC. VPC is nil when the resource is (or would be) absent.
type ReconcileResult struct {
	Changed bool `json:"changed"`
	VPC     *VPC `json:"vpc"`
}
