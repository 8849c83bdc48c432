package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	awsvpc "tasnim.dev/vpcsync/internal/aws/vpc"
)

// NewVPCService builds the EC2-backed VPC service from a loaded config. One
// service handle is built per invocation and passed down explicitly; there
// is no ambient connection state.
func NewVPCService(cfg aws.Config) *awsvpc.Client {
	return awsvpc.NewClient(ec2.NewFromConfig(cfg))
}
