package vpc

import "fmt"

// ValidationError reports a desired state that can never be reconciled,
// caught before any remote call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid desired state: " + e.Reason
}

// AmbiguityError reports multiple VPCs matching the desired name and CIDR
// when duplicates are not allowed. The caller must either permit duplicates
// or clean up manually; this is never retried.
type AmbiguityError struct {
	Name    string
	CIDR    string
	Matches int
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%d VPCs already have name %q and CIDR block %s; allow duplicates or disambiguate manually", e.Matches, e.Name, e.CIDR)
}

// DependencyError reports a delete that EC2 refused because other resources
// still reference the VPC. Those are not deleted automatically.
type DependencyError struct {
	VPCID string
	Err   error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("cannot delete VPC %s: %v; subnets, internet gateways or route tables still reference it and must be removed first", e.VPCID, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// RemoteError wraps any EC2 API failure. Nothing is retried; the
// reconciliation aborts at the first one.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }
