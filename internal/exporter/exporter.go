// Package exporter runs the export pipeline: for every selected feature it
// fetches the settings from the cluster, writes the rendered resource
// blocks to the output and imports each resource into terraform state.
package exporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"

	"github.com/qumulo/qumulo-import/internal/metrics"
	"github.com/qumulo/qumulo-import/internal/qumulo"
	"github.com/qumulo/qumulo-import/internal/render"
	"github.com/qumulo/qumulo-import/internal/terraform"
)

// RawSource returns API responses undecoded, for dumps that must carry
// every field the cluster sent.
type RawSource interface {
	GetRaw(ctx context.Context, pattern string, args ...any) (json.RawMessage, error)
	ListRaw(ctx context.Context, key, pattern string, args ...any) ([]json.RawMessage, error)
}

// Source is the subset of the Qumulo API the exporter reads from.
type Source interface {
	RawSource

	GetClusterSettings(ctx context.Context) (*qumulo.ClusterSettings, error)
	GetMonitoringSettings(ctx context.Context) (*qumulo.MonitoringSettings, error)
	GetSSLCA(ctx context.Context) (*qumulo.SSLCA, error)
	GetADStatus(ctx context.Context) (*qumulo.ADStatus, error)
	GetADSettings(ctx context.Context) (*qumulo.ADSettings, error)
	GetLDAPSettings(ctx context.Context) (*qumulo.LDAPSettings, error)
	GetTimeConfig(ctx context.Context) (*qumulo.TimeConfig, error)
	GetFTPSettings(ctx context.Context) (*qumulo.FTPSettings, error)
	GetPermissionsSettings(ctx context.Context) (*qumulo.PermissionsSettings, error)
	GetAtimeSettings(ctx context.Context) (*qumulo.AtimeSettings, error)
	GetSyslogConfig(ctx context.Context) (*qumulo.SyslogConfig, error)
	GetCloudWatchConfig(ctx context.Context) (*qumulo.CloudWatchConfig, error)
	GetWebUISettings(ctx context.Context) (*qumulo.WebUISettings, error)
	ListQuotas(ctx context.Context) ([]qumulo.Quota, error)
	ListUsers(ctx context.Context) ([]qumulo.LocalUser, error)
	ListGroups(ctx context.Context) ([]qumulo.LocalGroup, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]string, error)
	ListRoles(ctx context.Context) ([]qumulo.Role, error)
	ListRoleMembers(ctx context.Context, roleName string) ([]string, error)
	GetSMBSettings(ctx context.Context) (*qumulo.SMBSettings, error)
	ListSMBShares(ctx context.Context) ([]qumulo.SMBShare, error)
	GetNFSSettings(ctx context.Context) (*qumulo.NFSSettings, error)
	ListNFSExports(ctx context.Context) ([]qumulo.NFSExport, error)
	ListInterfaces(ctx context.Context) ([]qumulo.NetworkInterface, error)
	ListNetworks(ctx context.Context, interfaceID int) ([]qumulo.Network, error)
}

// Options configures an Exporter.
type Options struct {
	Source Source
	Runner terraform.Runner

	// Output receives the generated configuration.
	Output io.Writer

	// ProviderSource is written to the required_providers block.
	ProviderSource string

	// WorkDir is where terraform state lives. When set, the state and lock
	// files there are removed before terraform init.
	WorkDir string

	// Metrics is optional.
	Metrics *metrics.Recorder
}

// Result summarizes a run.
type Result struct {
	Features []Feature

	// Resources counts the import targets written to the configuration.
	Resources int
	Imported  int
	Failed    []terraform.Import

	// Skipped lists features that were selected but could not be exported.
	Skipped []Feature

	importErrs *multierror.Error
}

// ImportErrors returns all failed imports combined, or nil.
func (r *Result) ImportErrors() error {
	return r.importErrs.ErrorOrNil()
}

// Exporter writes terraform configuration for a cluster and imports it.
type Exporter struct {
	source   Source
	runner   terraform.Runner
	renderer *render.Renderer
	out      *bufio.Writer
	opts     Options
	result   *Result
}

// New creates an Exporter.
func New(opts Options) (*Exporter, error) {
	if opts.Source == nil || opts.Runner == nil || opts.Output == nil {
		return nil, fmt.Errorf("exporter requires a source, a runner and an output")
	}
	r, err := render.New()
	if err != nil {
		return nil, err
	}
	return &Exporter{
		source:   opts.Source,
		runner:   opts.Runner,
		renderer: r,
		out:      bufio.NewWriter(opts.Output),
		opts:     opts,
	}, nil
}

// Run writes the provider block, resets and initializes terraform, then
// exports every selected feature in order. API and write errors stop the
// run; failed terraform commands are recorded in the Result and the run
// continues.
func (e *Exporter) Run(ctx context.Context, sel Selection) (*Result, error) {
	logger := logr.FromContextOrDiscard(ctx)
	e.result = &Result{Features: sel.Features()}

	provider, err := e.renderer.Provider(e.opts.ProviderSource)
	if err != nil {
		return e.result, err
	}
	if err := e.write(provider); err != nil {
		return e.result, err
	}

	if e.opts.WorkDir != "" {
		if err := terraform.ResetState(e.opts.WorkDir); err != nil {
			return e.result, err
		}
	}
	if err := e.runner.Init(ctx); err != nil {
		logger.Error(err, "Terraform init failed, imports will likely fail")
	}

	steps := e.steps()
	for _, f := range e.result.Features {
		start := time.Now()
		logger.Info("Exporting feature", "feature", string(f))

		err := steps[f](ctx, f)
		e.opts.Metrics.ObserveFeature(string(f), time.Since(start))

		if err != nil {
			if f == FeatureSSLCA {
				logger.Error(err, "Unable to get SSL CA")
				e.result.Skipped = append(e.result.Skipped, f)
				continue
			}
			return e.result, fmt.Errorf("export %s: %w", f, err)
		}
	}

	return e.result, nil
}

type step func(ctx context.Context, f Feature) error

func (e *Exporter) steps() map[Feature]step {
	return map[Feature]step{
		FeatureClusterName:     e.exportClusterName,
		FeatureMonitoring:      e.exportMonitoring,
		FeatureSSLCA:           e.exportSSLCA,
		FeatureActiveDirectory: e.exportActiveDirectory,
		FeatureLDAP:            e.exportLDAP,
		FeatureTimeConfig:      e.exportTimeConfig,
		FeatureFTP:             e.exportFTP,
		FeatureFSSettings:      e.exportFSSettings,
		FeatureAuditLog:        e.exportAuditLog,
		FeatureCloudWatch:      e.exportCloudWatch,
		FeatureWebUI:           e.exportWebUI,
		FeatureQuotas:          e.exportQuotas,
		FeatureLocalUsers:      e.exportLocalUsers,
		FeatureLocalGroups:     e.exportLocalGroups,
		FeatureRoles:           e.exportRoles,
		FeatureSMBSettings:     e.exportSMBSettings,
		FeatureSMBShares:       e.exportSMBShares,
		FeatureNFSSettings:     e.exportNFSSettings,
		FeatureNFSExports:      e.exportNFSExports,
		FeatureInterfaces:      e.exportInterfaces,
	}
}

// write appends text and a separating newline, then flushes.
func (e *Exporter) write(text string) error {
	if _, err := e.out.WriteString(text + "\n"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := e.out.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// emit writes a rendered block and imports every resource it declares.
func (e *Exporter) emit(ctx context.Context, f Feature, b render.Block, renderErr error) error {
	if renderErr != nil {
		return renderErr
	}
	if err := e.write(b.Text); err != nil {
		return err
	}
	e.opts.Metrics.Rendered(string(f))

	for _, imp := range b.Imports {
		e.result.Resources++
		err := e.runner.Import(ctx, imp.Address.String(), imp.ID)
		e.opts.Metrics.ImportResult(err)
		if err != nil {
			logr.FromContextOrDiscard(ctx).Error(err, "Import failed", "address", imp.Address.String(), "id", imp.ID)
			e.result.Failed = append(e.result.Failed, imp)
			e.result.importErrs = multierror.Append(e.result.importErrs, err)
			continue
		}
		e.result.Imported++
	}
	return nil
}

func (e *Exporter) exportClusterName(ctx context.Context, f Feature) error {
	s, err := e.source.GetClusterSettings(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.ClusterName(s)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportMonitoring(ctx context.Context, f Feature) error {
	s, err := e.source.GetMonitoringSettings(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.Monitoring(s)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportSSLCA(ctx context.Context, f Feature) error {
	ca, err := e.source.GetSSLCA(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.SSLCA(ca)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportActiveDirectory(ctx context.Context, f Feature) error {
	status, err := e.source.GetADStatus(ctx)
	if err != nil {
		return err
	}
	settings, err := e.source.GetADSettings(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.ActiveDirectory(status, settings)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportLDAP(ctx context.Context, f Feature) error {
	s, err := e.source.GetLDAPSettings(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.LDAP(s)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportTimeConfig(ctx context.Context, f Feature) error {
	c, err := e.source.GetTimeConfig(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.TimeConfig(c)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportFTP(ctx context.Context, f Feature) error {
	s, err := e.source.GetFTPSettings(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.FTP(s)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportFSSettings(ctx context.Context, f Feature) error {
	perms, err := e.source.GetPermissionsSettings(ctx)
	if err != nil {
		return err
	}
	atime, err := e.source.GetAtimeSettings(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.FileSystem(perms, atime)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportAuditLog(ctx context.Context, f Feature) error {
	c, err := e.source.GetSyslogConfig(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.AuditLog(c)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportCloudWatch(ctx context.Context, f Feature) error {
	c, err := e.source.GetCloudWatchConfig(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.CloudWatch(c)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportWebUI(ctx context.Context, f Feature) error {
	s, err := e.source.GetWebUISettings(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.WebUI(s)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportQuotas(ctx context.Context, f Feature) error {
	quotas, err := e.source.ListQuotas(ctx)
	if err != nil {
		return err
	}
	for _, q := range quotas {
		b, err := e.renderer.Quota(q)
		if err = e.emit(ctx, f, b, err); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) exportLocalUsers(ctx context.Context, f Feature) error {
	users, err := e.source.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		b, err := e.renderer.LocalUser(u)
		if err = e.emit(ctx, f, b, err); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) exportLocalGroups(ctx context.Context, f Feature) error {
	groups, err := e.source.ListGroups(ctx)
	if err != nil {
		return err
	}
	for _, g := range groups {
		gb, err := e.renderer.LocalGroup(g)
		if err = e.emit(ctx, f, gb, err); err != nil {
			return err
		}

		members, err := e.source.ListGroupMembers(ctx, g.ID.String())
		if err != nil {
			return err
		}
		if len(members) == 0 {
			continue
		}
		mb, err := e.renderer.GroupMembers(gb.Address, g, members)
		if err = e.emit(ctx, f, mb, err); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) exportRoles(ctx context.Context, f Feature) error {
	roles, err := e.source.ListRoles(ctx)
	if err != nil {
		return err
	}
	for _, role := range roles {
		rb, err := e.renderer.Role(role)
		if err = e.emit(ctx, f, rb, err); err != nil {
			return err
		}

		members, err := e.source.ListRoleMembers(ctx, role.Name)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			continue
		}
		mb, err := e.renderer.RoleMembers(rb.Address, role, members)
		if err = e.emit(ctx, f, mb, err); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) exportSMBSettings(ctx context.Context, f Feature) error {
	s, err := e.source.GetSMBSettings(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.SMBServer(s)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportSMBShares(ctx context.Context, f Feature) error {
	shares, err := e.source.ListSMBShares(ctx)
	if err != nil {
		return err
	}
	for _, s := range shares {
		b, err := e.renderer.SMBShare(s)
		if err = e.emit(ctx, f, b, err); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) exportNFSSettings(ctx context.Context, f Feature) error {
	s, err := e.source.GetNFSSettings(ctx)
	if err != nil {
		return err
	}
	b, err := e.renderer.NFSSettings(s)
	return e.emit(ctx, f, b, err)
}

func (e *Exporter) exportNFSExports(ctx context.Context, f Feature) error {
	exports, err := e.source.ListNFSExports(ctx)
	if err != nil {
		return err
	}
	for _, x := range exports {
		b, err := e.renderer.NFSExport(x)
		if err = e.emit(ctx, f, b, err); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) exportInterfaces(ctx context.Context, f Feature) error {
	interfaces, err := e.source.ListInterfaces(ctx)
	if err != nil {
		return err
	}
	for _, i := range interfaces {
		ib, err := e.renderer.Interface(i)
		if err = e.emit(ctx, f, ib, err); err != nil {
			return err
		}

		networks, err := e.source.ListNetworks(ctx, i.ID)
		if err != nil {
			return err
		}
		for _, n := range networks {
			nb, err := e.renderer.Network(i.ID, n)
			if err = e.emit(ctx, f, nb, err); err != nil {
				return err
			}
		}
	}
	return nil
}
