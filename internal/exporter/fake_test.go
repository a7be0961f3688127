package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/qumulo/qumulo-import/internal/qumulo"
)

// fakeSource serves canned settings. Errors in errs are returned by the
// method of the same name, or for raw reads by the request path.
type fakeSource struct {
	calls []string
	errs  map[string]error

	// raw holds response bodies by request path.
	raw map[string]string

	quotas       []qumulo.Quota
	users        []qumulo.LocalUser
	groups       []qumulo.LocalGroup
	groupMembers map[string][]string
	roles        []qumulo.Role
	roleMembers  map[string][]string
	shares       []qumulo.SMBShare
	exports      []qumulo.NFSExport
	interfaces   []qumulo.NetworkInterface
	networks     map[int][]qumulo.Network
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		errs: map[string]error{},
		raw:  rawResponses(),
		quotas: []qumulo.Quota{
			{ID: "3", Limit: "1000"},
		},
		users: []qumulo.LocalUser{
			{ID: "500", Name: "admin", PrimaryGroup: "513"},
			{ID: "501", Name: "guest", PrimaryGroup: "514"},
		},
		groups: []qumulo.LocalGroup{
			{ID: "513", Name: "Users"},
			{ID: "514", Name: "Guests"},
		},
		groupMembers: map[string][]string{"513": {"500"}},
		roles: []qumulo.Role{
			{Name: "Administrators", Description: "full", Privileges: []string{"PRIVILEGE_AD_READ"}},
		},
		roleMembers: map[string][]string{"Administrators": {"500", "12884901921"}},
		shares: []qumulo.SMBShare{
			{ID: "1", ShareName: "Files", FSPath: "/"},
		},
		exports: []qumulo.NFSExport{
			{ID: "1", ExportPath: "/", FSPath: "/"},
		},
		interfaces: []qumulo.NetworkInterface{
			{ID: 1, Name: "bond0", MTU: 1500},
		},
		networks: map[int][]qumulo.Network{
			1: {{ID: 1, Name: "Default", AssignedBy: "DHCP"}},
		},
	}
}

// rawResponses mirrors the typed fixtures as the cluster would send them.
// Some bodies carry fields the typed models do not know about.
func rawResponses() map[string]string {
	return map[string]string{
		qumulo.ClusterSettingsEndpoint:          `{"cluster_name":"prod-1"}`,
		qumulo.MonitoringEndpoint:               `{"enabled":true}`,
		qumulo.SSLCAEndpoint:                    `{"ca_certificate":"-----BEGIN CERTIFICATE-----\n"}`,
		qumulo.ADMonitorEndpoint:                `{"status":"JOINED","domain":"ad.example.com","dcs":[{"name":"dc1"}]}`,
		qumulo.ADSettingsEndpoint:               `{"signing":"NO_SIGNING"}`,
		qumulo.TimeStatusEndpoint:               `{"config":{"use_ad_for_primary":false,"ntp_servers":["pool.ntp.org"]},"time":"2026-10-16T00:00:00Z"}`,
		qumulo.PermissionsEndpoint:              `{"mode":"NATIVE"}`,
		qumulo.AtimeEndpoint:                    `{"enabled":false,"granularity":"HOUR"}`,
		qumulo.QuotasEndpoint:                   `{"quotas":[{"id":"3","limit":"1000"}],"paging":{"next":""}}`,
		qumulo.UsersEndpoint:                    `[{"id":"500","name":"admin","primary_group":"513"},{"id":"501","name":"guest","primary_group":"514"}]`,
		qumulo.GroupsEndpoint:                   `[{"id":"513","name":"Users","sid":"S-1-5-513","gid":null},{"id":"514","name":"Guests"}]`,
		"/v1/groups/513/members/":               `[{"id":"500","name":"admin"}]`,
		"/v1/groups/514/members/":               `[]`,
		qumulo.RolesEndpoint:                    `{"Administrators":{"description":"full","privileges":["PRIVILEGE_AD_READ"]}}`,
		"/v1/auth/roles/Administrators/members": `{"members":["500","12884901921"],"paging":{"next":null}}`,
		qumulo.SMBSharesEndpoint:                `[{"id":"1","share_name":"Files","fs_path":"/","tenant_id":1}]`,
		qumulo.NFSSettingsEndpoint:              `{"v4_enabled":false}`,
		qumulo.NFSExportsEndpoint:               `[{"id":"1","export_path":"/","fs_path":"/","tenant_id":1}]`,
		qumulo.InterfacesEndpoint:               `[{"id":1,"name":"bond0","mtu":1500}]`,
		"/v2/network/interfaces/1/networks/":    `[{"id":1,"name":"Default","assigned_by":"DHCP"}]`,
	}
}

func (f *fakeSource) GetRaw(_ context.Context, pattern string, args ...any) (json.RawMessage, error) {
	escaped := make([]any, len(args))
	for i, a := range args {
		if s, ok := a.(string); ok {
			a = url.PathEscape(s)
		}
		escaped[i] = a
	}
	path := fmt.Sprintf(pattern, escaped...)
	if err := f.record(path); err != nil {
		return nil, err
	}
	body, ok := f.raw[path]
	if !ok {
		return nil, fmt.Errorf("GET %s: status 404", path)
	}
	return json.RawMessage(body), nil
}

func (f *fakeSource) ListRaw(ctx context.Context, key, pattern string, args ...any) ([]json.RawMessage, error) {
	body, err := f.GetRaw(ctx, pattern, args...)
	if err != nil {
		return nil, err
	}
	var page map[string]json.RawMessage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(page[key], &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (f *fakeSource) record(name string) error {
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeSource) GetClusterSettings(context.Context) (*qumulo.ClusterSettings, error) {
	return &qumulo.ClusterSettings{ClusterName: "prod-1"}, f.record("GetClusterSettings")
}

func (f *fakeSource) GetMonitoringSettings(context.Context) (*qumulo.MonitoringSettings, error) {
	return &qumulo.MonitoringSettings{Enabled: true}, f.record("GetMonitoringSettings")
}

func (f *fakeSource) GetSSLCA(context.Context) (*qumulo.SSLCA, error) {
	if err := f.record("GetSSLCA"); err != nil {
		return nil, err
	}
	return &qumulo.SSLCA{CACertificate: "-----BEGIN CERTIFICATE-----\n"}, nil
}

func (f *fakeSource) GetADStatus(context.Context) (*qumulo.ADStatus, error) {
	return &qumulo.ADStatus{Domain: "ad.example.com"}, f.record("GetADStatus")
}

func (f *fakeSource) GetADSettings(context.Context) (*qumulo.ADSettings, error) {
	return &qumulo.ADSettings{Signing: "NO_SIGNING"}, f.record("GetADSettings")
}

func (f *fakeSource) GetLDAPSettings(context.Context) (*qumulo.LDAPSettings, error) {
	return &qumulo.LDAPSettings{}, f.record("GetLDAPSettings")
}

func (f *fakeSource) GetTimeConfig(context.Context) (*qumulo.TimeConfig, error) {
	return &qumulo.TimeConfig{NTPServers: []string{"pool.ntp.org"}}, f.record("GetTimeConfig")
}

func (f *fakeSource) GetFTPSettings(context.Context) (*qumulo.FTPSettings, error) {
	return &qumulo.FTPSettings{}, f.record("GetFTPSettings")
}

func (f *fakeSource) GetPermissionsSettings(context.Context) (*qumulo.PermissionsSettings, error) {
	return &qumulo.PermissionsSettings{Mode: "NATIVE"}, f.record("GetPermissionsSettings")
}

func (f *fakeSource) GetAtimeSettings(context.Context) (*qumulo.AtimeSettings, error) {
	return &qumulo.AtimeSettings{Granularity: "HOUR"}, f.record("GetAtimeSettings")
}

func (f *fakeSource) GetSyslogConfig(context.Context) (*qumulo.SyslogConfig, error) {
	return &qumulo.SyslogConfig{}, f.record("GetSyslogConfig")
}

func (f *fakeSource) GetCloudWatchConfig(context.Context) (*qumulo.CloudWatchConfig, error) {
	return &qumulo.CloudWatchConfig{}, f.record("GetCloudWatchConfig")
}

func (f *fakeSource) GetWebUISettings(context.Context) (*qumulo.WebUISettings, error) {
	return &qumulo.WebUISettings{}, f.record("GetWebUISettings")
}

func (f *fakeSource) ListQuotas(context.Context) ([]qumulo.Quota, error) {
	return f.quotas, f.record("ListQuotas")
}

func (f *fakeSource) ListUsers(context.Context) ([]qumulo.LocalUser, error) {
	return f.users, f.record("ListUsers")
}

func (f *fakeSource) ListGroups(context.Context) ([]qumulo.LocalGroup, error) {
	out := make([]qumulo.LocalGroup, len(f.groups))
	copy(out, f.groups)
	return out, f.record("ListGroups")
}

func (f *fakeSource) ListGroupMembers(_ context.Context, groupID string) ([]string, error) {
	return f.groupMembers[groupID], f.record("ListGroupMembers:" + groupID)
}

func (f *fakeSource) ListRoles(context.Context) ([]qumulo.Role, error) {
	return f.roles, f.record("ListRoles")
}

func (f *fakeSource) ListRoleMembers(_ context.Context, roleName string) ([]string, error) {
	return f.roleMembers[roleName], f.record("ListRoleMembers:" + roleName)
}

func (f *fakeSource) GetSMBSettings(context.Context) (*qumulo.SMBSettings, error) {
	return &qumulo.SMBSettings{}, f.record("GetSMBSettings")
}

func (f *fakeSource) ListSMBShares(context.Context) ([]qumulo.SMBShare, error) {
	return f.shares, f.record("ListSMBShares")
}

func (f *fakeSource) GetNFSSettings(context.Context) (*qumulo.NFSSettings, error) {
	return &qumulo.NFSSettings{}, f.record("GetNFSSettings")
}

func (f *fakeSource) ListNFSExports(context.Context) ([]qumulo.NFSExport, error) {
	return f.exports, f.record("ListNFSExports")
}

func (f *fakeSource) ListInterfaces(context.Context) ([]qumulo.NetworkInterface, error) {
	return f.interfaces, f.record("ListInterfaces")
}

func (f *fakeSource) ListNetworks(_ context.Context, interfaceID int) ([]qumulo.Network, error) {
	return f.networks[interfaceID], f.record(fmt.Sprintf("ListNetworks:%d", interfaceID))
}

// recordingRunner records terraform invocations. Imports of addresses in
// fail return an error.
type recordingRunner struct {
	inits   int
	imports []string
	fail    map[string]bool
	initErr error
}

func (r *recordingRunner) Init(context.Context) error {
	r.inits++
	return r.initErr
}

func (r *recordingRunner) Import(_ context.Context, address, id string) error {
	r.imports = append(r.imports, address+" "+id)
	if r.fail[address] {
		return errors.New("exit status 1")
	}
	return nil
}
