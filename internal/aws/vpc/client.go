package vpc

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
)

// dependencyViolation is the EC2 error code returned by DeleteVpc while
// subnets, gateways or route tables still reference the VPC.
const dependencyViolation = "DependencyViolation"

type VPCAPI interface {
	DescribeVpcs(ctx context.Context, params *awsec2.DescribeVpcsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeVpcsOutput, error)
	CreateVpc(ctx context.Context, params *awsec2.CreateVpcInput, optFns ...func(*awsec2.Options)) (*awsec2.CreateVpcOutput, error)
	DeleteVpc(ctx context.Context, params *awsec2.DeleteVpcInput, optFns ...func(*awsec2.Options)) (*awsec2.DeleteVpcOutput, error)
	DescribeTags(ctx context.Context, params *awsec2.DescribeTagsInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeTagsOutput, error)
	CreateTags(ctx context.Context, params *awsec2.CreateTagsInput, optFns ...func(*awsec2.Options)) (*awsec2.CreateTagsOutput, error)
	AssociateDhcpOptions(ctx context.Context, params *awsec2.AssociateDhcpOptionsInput, optFns ...func(*awsec2.Options)) (*awsec2.AssociateDhcpOptionsOutput, error)
	ModifyVpcAttribute(ctx context.Context, params *awsec2.ModifyVpcAttributeInput, optFns ...func(*awsec2.Options)) (*awsec2.ModifyVpcAttributeOutput, error)
}

type Client struct {
	api VPCAPI
}

func NewClient(api VPCAPI) *Client {
	return &Client{api: api}
}

func tagsToMap(tags []types.Tag) map[string]string {
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}

func fromSDK(v types.Vpc) VPC {
	return VPC{
		ID:            aws.ToString(v.VpcId),
		CIDRBlock:     aws.ToString(v.CidrBlock),
		State:         string(v.State),
		Tags:          tagsToMap(v.Tags),
		DHCPOptionsID: aws.ToString(v.DhcpOptionsId),
		Tenancy:       Tenancy(v.InstanceTenancy),
		IsDefault:     aws.ToBool(v.IsDefault),
	}
}

// Find returns every VPC whose Name tag and primary CIDR block match. A VPC
// carrying the CIDR only as a secondary association is not a match.
func (c *Client) Find(ctx context.Context, name, cidr string) ([]VPC, error) {
	var vpcs []VPC
	var nextToken *string

	for {
		out, err := c.api.DescribeVpcs(ctx, &awsec2.DescribeVpcsInput{
			Filters: []types.Filter{
				{Name: aws.String("tag:Name"), Values: []string{name}},
				{Name: aws.String("cidr"), Values: []string{cidr}},
			},
			NextToken: nextToken,
		})
		if err != nil {
			return nil, &RemoteError{Op: "DescribeVpcs", Err: err}
		}

		for _, v := range out.Vpcs {
			vpcs = append(vpcs, fromSDK(v))
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return vpcs, nil
}

func (c *Client) Create(ctx context.Context, cidr string, tenancy Tenancy) (*VPC, error) {
	out, err := c.api.CreateVpc(ctx, &awsec2.CreateVpcInput{
		CidrBlock:       aws.String(cidr),
		InstanceTenancy: types.Tenancy(tenancy),
	})
	if err != nil {
		return nil, &RemoteError{Op: "CreateVpc", Err: err}
	}
	created := fromSDK(*out.Vpc)
	return &created, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.api.DeleteVpc(ctx, &awsec2.DeleteVpcInput{VpcId: aws.String(id)})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == dependencyViolation {
			return &DependencyError{VPCID: id, Err: err}
		}
		return &RemoteError{Op: "DeleteVpc", Err: err}
	}
	return nil
}

// Tags fetches the current tag set of the VPC.
func (c *Client) Tags(ctx context.Context, id string) (map[string]string, error) {
	tags := map[string]string{}
	var nextToken *string

	for {
		out, err := c.api.DescribeTags(ctx, &awsec2.DescribeTagsInput{
			Filters: []types.Filter{
				{Name: aws.String("resource-id"), Values: []string{id}},
			},
			NextToken: nextToken,
		})
		if err != nil {
			return nil, &RemoteError{Op: "DescribeTags", Err: err}
		}

		for _, tag := range out.Tags {
			tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return tags, nil
}

func (c *Client) SetTags(ctx context.Context, id string, tags map[string]string) error {
	sdkTags := make([]types.Tag, 0, len(tags))
	for k, v := range tags {
		sdkTags = append(sdkTags, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}

	_, err := c.api.CreateTags(ctx, &awsec2.CreateTagsInput{
		Resources: []string{id},
		Tags:      sdkTags,
	})
	if err != nil {
		return &RemoteError{Op: "CreateTags", Err: err}
	}
	return nil
}

func (c *Client) AssociateDHCPOptions(ctx context.Context, id, dhcpOptionsID string) error {
	_, err := c.api.AssociateDhcpOptions(ctx, &awsec2.AssociateDhcpOptionsInput{
		DhcpOptionsId: aws.String(dhcpOptionsID),
		VpcId:         aws.String(id),
	})
	if err != nil {
		return &RemoteError{Op: "AssociateDhcpOptions", Err: err}
	}
	return nil
}

// SetDNSAttributes writes both DNS flags. EC2 accepts one attribute per
// ModifyVpcAttribute call, so this is always two requests, support first.
// EC2 offers no way to read these flags back, so callers cannot diff them.
func (c *Client) SetDNSAttributes(ctx context.Context, id string, dnsSupport, dnsHostnames bool) error {
	_, err := c.api.ModifyVpcAttribute(ctx, &awsec2.ModifyVpcAttributeInput{
		VpcId:            aws.String(id),
		EnableDnsSupport: &types.AttributeBooleanValue{Value: aws.Bool(dnsSupport)},
	})
	if err != nil {
		return &RemoteError{Op: "ModifyVpcAttribute(EnableDnsSupport)", Err: err}
	}

	_, err = c.api.ModifyVpcAttribute(ctx, &awsec2.ModifyVpcAttributeInput{
		VpcId:              aws.String(id),
		EnableDnsHostnames: &types.AttributeBooleanValue{Value: aws.Bool(dnsHostnames)},
	})
	if err != nil {
		return &RemoteError{Op: "ModifyVpcAttribute(EnableDnsHostnames)", Err: err}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, id string) (*VPC, error) {
	out, err := c.api.DescribeVpcs(ctx, &awsec2.DescribeVpcsInput{
		VpcIds: []string{id},
	})
	if err != nil {
		return nil, &RemoteError{Op: "DescribeVpcs", Err: err}
	}
	if len(out.Vpcs) == 0 {
		return nil, &RemoteError{Op: "DescribeVpcs", Err: errors.New("VPC " + id + " not found")}
	}
	got := fromSDK(out.Vpcs[0])
	return &got, nil
}
