package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	awsclient "tasnim.dev/vpcsync/internal/aws"
	awsvpc "tasnim.dev/vpcsync/internal/aws/vpc"
	"tasnim.dev/vpcsync/internal/config"
	"tasnim.dev/vpcsync/internal/journal"
)

func NewReconcileCmd() *cobra.Command {
	var (
		profile     string
		region      string
		specFile    string
		state       string
		check       bool
		journalPath string

		name          string
		cidrBlock     string
		tenancy       string
		dnsSupport    bool
		dnsHostnames  bool
		dhcpOptionsID string
		tags          map[string]string
		multiOK       bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile a VPC against the desired state",
		Long: `Reconcile creates, updates or deletes a single VPC so that it matches the
desired state given by flags or a spec file. The run is idempotent: a second
run against unchanged remote state reports changed=false. With --check no
mutating call is made but the changed decision is still reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			desired := awsvpc.DesiredState{
				Tenancy:      awsvpc.TenancyDefault,
				DNSSupport:   true,
				DNSHostnames: true,
			}

			if specFile != "" {
				data, err := os.ReadFile(specFile)
				if err != nil {
					return fmt.Errorf("reading spec file: %w", err)
				}
				if err := yaml.Unmarshal(data, &desired); err != nil {
					return fmt.Errorf("parsing spec file: %w", err)
				}
			}

			// Flags set explicitly win over spec file values.
			flags := cmd.Flags()
			if flags.Changed("name") {
				desired.Name = name
			}
			if flags.Changed("cidr-block") {
				desired.CIDRBlock = cidrBlock
			}
			if flags.Changed("tenancy") {
				desired.Tenancy = awsvpc.Tenancy(tenancy)
			}
			if flags.Changed("dns-support") {
				desired.DNSSupport = dnsSupport
			}
			if flags.Changed("dns-hostnames") {
				desired.DNSHostnames = dnsHostnames
			}
			if flags.Changed("dhcp-options-id") {
				desired.DHCPOptionsID = dhcpOptionsID
			}
			if flags.Changed("tag") {
				desired.Tags = tags
			}
			if flags.Changed("multi-ok") {
				desired.AllowDuplicates = multiOK
			}

			if state != "present" && state != "absent" {
				return fmt.Errorf("--state must be present or absent, got %q", state)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			profile, region = cfg.Merge(profile, region)

			ctx := context.Background()
			awsCfg, err := awsclient.LoadConfig(ctx, profile, region)
			if err != nil {
				return err
			}

			svc := awsclient.NewVPCService(awsCfg)
			rec := awsvpc.NewReconciler(svc)

			var res awsvpc.ReconcileResult
			var recErr error
			if state == "present" {
				res, recErr = rec.EnsurePresent(ctx, desired, check)
			} else {
				res, recErr = rec.EnsureAbsent(ctx, desired, check)
			}

			appendJournal(ctx, cfg.JournalPath(journalPath), awsCfg, desired, state, check, res, recErr)

			if recErr != nil {
				return recErr
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region to use")
	cmd.Flags().StringVarP(&specFile, "spec-file", "f", "", "YAML file with the desired state")
	cmd.Flags().StringVar(&state, "state", "present", "desired state: present or absent")
	cmd.Flags().BoolVar(&check, "check", false, "report what would change without mutating anything")
	cmd.Flags().StringVar(&journalPath, "journal", "", "journal database path")

	cmd.Flags().StringVar(&name, "name", "", "VPC name (written as the Name tag)")
	cmd.Flags().StringVar(&cidrBlock, "cidr-block", "", "primary IPv4 CIDR block")
	cmd.Flags().StringVar(&tenancy, "tenancy", "default", "instance tenancy: default or dedicated")
	cmd.Flags().BoolVar(&dnsSupport, "dns-support", true, "enable DNS support")
	cmd.Flags().BoolVar(&dnsHostnames, "dns-hostnames", true, "enable DNS hostnames (requires DNS support)")
	cmd.Flags().StringVar(&dhcpOptionsID, "dhcp-options-id", "", "DHCP options set to associate")
	cmd.Flags().StringToStringVar(&tags, "tag", nil, "tag to apply, key=value (repeatable)")
	cmd.Flags().BoolVar(&multiOK, "multi-ok", false, "allow creating a VPC even when one with the same name and CIDR exists")

	return cmd
}

// appendJournal records the run outcome. Journal trouble is reported but
// never changes the exit status of the reconciliation itself.
func appendJournal(ctx context.Context, path string, awsCfg awssdk.Config, desired awsvpc.DesiredState, state string, dryRun bool, res awsvpc.ReconcileResult, recErr error) {
	j, err := journal.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	defer j.Close()

	entry := journal.Entry{
		Account:   awsclient.CallerAccountID(ctx, awsCfg),
		Name:      desired.Name,
		CIDRBlock: desired.CIDRBlock,
		State:     state,
		DryRun:    dryRun,
		Changed:   res.Changed,
	}
	if res.VPC != nil {
		entry.VPCID = res.VPC.ID
	}
	if recErr != nil {
		entry.Error = recErr.Error()
	}

	if err := j.Append(entry); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}
