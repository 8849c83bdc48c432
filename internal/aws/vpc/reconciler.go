package vpc

import (
	"context"
	"maps"
)

// Service is the VPC surface the reconciler drives. *Client implements it
// against EC2; tests substitute a recording fake.
type Service interface {
	Find(ctx context.Context, name, cidr string) ([]VPC, error)
	Create(ctx context.Context, cidr string, tenancy Tenancy) (*VPC, error)
	Delete(ctx context.Context, id string) error
	Tags(ctx context.Context, id string) (map[string]string, error)
	SetTags(ctx context.Context, id string, tags map[string]string) error
	AssociateDHCPOptions(ctx context.Context, id, dhcpOptionsID string) error
	SetDNSAttributes(ctx context.Context, id string, dnsSupport, dnsHostnames bool) error
	Get(ctx context.Context, id string) (*VPC, error)
}

// Reconciler drives a single VPC toward a desired state. Each call is a
// fresh reconciliation against live remote state; nothing is cached between
// invocations and nothing is retried or rolled back.
type Reconciler struct {
	svc Service
}

func NewReconciler(svc Service) *Reconciler {
	return &Reconciler{svc: svc}
}

// lookup finds the VPC the desired state refers to. With AllowDuplicates the
// match is discarded so a duplicate can always be created; otherwise exactly
// one match binds and more than one is a hard stop.
func (r *Reconciler) lookup(ctx context.Context, desired DesiredState) (*VPC, error) {
	matches, err := r.svc.Find(ctx, desired.Name, desired.CIDRBlock)
	if err != nil {
		return nil, err
	}
	if desired.AllowDuplicates {
		return nil, nil
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		return nil, &AmbiguityError{Name: desired.Name, CIDR: desired.CIDRBlock, Matches: len(matches)}
	}
}

// EnsurePresent creates the VPC if it is missing and converges its DHCP
// option association, tags and DNS attributes. With dryRun no mutating call
// is made, but the returned Changed matches what a real run would report.
func (r *Reconciler) EnsurePresent(ctx context.Context, desired DesiredState, dryRun bool) (ReconcileResult, error) {
	if err := desired.Validate(); err != nil {
		return ReconcileResult{}, err
	}

	current, err := r.lookup(ctx, desired)
	if err != nil {
		return ReconcileResult{}, err
	}

	changed := false
	if current == nil {
		changed = true
		if dryRun {
			// Nothing to diff against before the VPC exists.
			return ReconcileResult{Changed: true}, nil
		}
		current, err = r.svc.Create(ctx, desired.CIDRBlock, desired.Tenancy)
		if err != nil {
			return ReconcileResult{}, err
		}
	}

	if desired.DHCPOptionsID != "" && desired.DHCPOptionsID != current.DHCPOptionsID {
		if !dryRun {
			if err := r.svc.AssociateDHCPOptions(ctx, current.ID, desired.DHCPOptionsID); err != nil {
				return ReconcileResult{}, err
			}
		}
		changed = true
	}

	wantTags := desired.EffectiveTags()
	haveTags, err := r.svc.Tags(ctx, current.ID)
	if err != nil {
		return ReconcileResult{}, err
	}
	if !maps.Equal(wantTags, haveTags) {
		if !dryRun {
			if err := r.svc.SetTags(ctx, current.ID, wantTags); err != nil {
				return ReconcileResult{}, err
			}
		}
		changed = true
	}

	// DNS attributes cannot be read back from EC2, so they are written on
	// every run and never counted toward Changed.
	if !dryRun {
		if err := r.svc.SetDNSAttributes(ctx, current.ID, desired.DNSSupport, desired.DNSHostnames); err != nil {
			return ReconcileResult{}, err
		}

		current, err = r.svc.Get(ctx, current.ID)
		if err != nil {
			return ReconcileResult{}, err
		}
	}

	return ReconcileResult{Changed: changed, VPC: current}, nil
}

// EnsureAbsent deletes the VPC if it exists. Resources still referencing it
// make the delete fail with a DependencyError; nothing cascades.
func (r *Reconciler) EnsureAbsent(ctx context.Context, desired DesiredState, dryRun bool) (ReconcileResult, error) {
	if err := desired.Validate(); err != nil {
		return ReconcileResult{}, err
	}

	current, err := r.lookup(ctx, desired)
	if err != nil {
		return ReconcileResult{}, err
	}
	if current == nil {
		return ReconcileResult{Changed: false}, nil
	}

	if !dryRun {
		if err := r.svc.Delete(ctx, current.ID); err != nil {
			return ReconcileResult{}, err
		}
	}
	return ReconcileResult{Changed: true}, nil
}
