package qumulo

import (
	"context"
	"fmt"
	"net/http"
	"sort"
)

// Endpoint paths. Patterns with verbs are formatted by getJSON.
const (
	ClusterSettingsEndpoint  = "/v1/cluster/settings"
	MonitoringEndpoint       = "/v1/support/settings"
	SSLCAEndpoint            = "/v2/cluster/settings/ssl/ca-certificate"
	ADMonitorEndpoint        = "/v1/ad/monitor"
	ADSettingsEndpoint       = "/v1/ad/settings"
	LDAPSettingsEndpoint     = "/v2/ldap/settings"
	TimeStatusEndpoint       = "/v1/time/status"
	FTPSettingsEndpoint      = "/v0/ftp/settings"
	PermissionsEndpoint      = "/v1/file-system/settings/permissions"
	AtimeEndpoint            = "/v1/file-system/settings/atime"
	SyslogConfigEndpoint     = "/v1/audit/syslog/config"
	CloudWatchConfigEndpoint = "/v1/audit/cloudwatch/config"
	QuotasEndpoint           = "/v1/files/quotas/"
	UsersEndpoint            = "/v1/users/"
	GroupsEndpoint           = "/v1/groups/"
	GroupMembersEndpoint     = "/v1/groups/%s/members/"
	RolesEndpoint            = "/v1/auth/roles/"
	RoleMembersEndpoint      = "/v1/auth/roles/%s/members"
	SMBSettingsEndpoint      = "/v1/smb/settings"
	SMBSharesEndpoint        = "/v2/smb/shares/"
	NFSSettingsEndpoint      = "/v2/nfs/settings"
	NFSExportsEndpoint       = "/v2/nfs/exports/"
	InterfacesEndpoint       = "/v2/network/interfaces/"
	NetworksEndpoint         = "/v2/network/interfaces/%d/networks/"
	WebUIEndpoint            = "/v1/web-ui/settings"
)

// maxPages guards against a paging cursor that never ends.
const maxPages = 10000

// GetClusterSettings returns the cluster name.
func (c *Client) GetClusterSettings(ctx context.Context) (*ClusterSettings, error) {
	var out ClusterSettings
	if err := c.getJSON(ctx, &out, ClusterSettingsEndpoint); err != nil {
		return nil, fmt.Errorf("get cluster settings: %w", err)
	}
	return &out, nil
}

// GetMonitoringSettings returns the monitoring and remote support configuration.
func (c *Client) GetMonitoringSettings(ctx context.Context) (*MonitoringSettings, error) {
	var out MonitoringSettings
	if err := c.getJSON(ctx, &out, MonitoringEndpoint); err != nil {
		return nil, fmt.Errorf("get monitoring settings: %w", err)
	}
	return &out, nil
}

// GetSSLCA returns the configured CA certificate.
// Clusters without a custom CA answer 404.
func (c *Client) GetSSLCA(ctx context.Context) (*SSLCA, error) {
	var out SSLCA
	if err := c.getJSON(ctx, &out, SSLCAEndpoint); err != nil {
		return nil, fmt.Errorf("get SSL CA certificate: %w", err)
	}
	return &out, nil
}

// GetADStatus returns the Active Directory join state.
func (c *Client) GetADStatus(ctx context.Context) (*ADStatus, error) {
	var out ADStatus
	if err := c.getJSON(ctx, &out, ADMonitorEndpoint); err != nil {
		return nil, fmt.Errorf("get active directory status: %w", err)
	}
	return &out, nil
}

// GetADSettings returns the advanced Active Directory settings.
func (c *Client) GetADSettings(ctx context.Context) (*ADSettings, error) {
	var out ADSettings
	if err := c.getJSON(ctx, &out, ADSettingsEndpoint); err != nil {
		return nil, fmt.Errorf("get active directory settings: %w", err)
	}
	return &out, nil
}

// GetLDAPSettings returns the LDAP configuration.
func (c *Client) GetLDAPSettings(ctx context.Context) (*LDAPSettings, error) {
	var out LDAPSettings
	if err := c.getJSON(ctx, &out, LDAPSettingsEndpoint); err != nil {
		return nil, fmt.Errorf("get LDAP settings: %w", err)
	}
	return &out, nil
}

// GetTimeConfig returns the time configuration portion of the time status.
func (c *Client) GetTimeConfig(ctx context.Context) (*TimeConfig, error) {
	var out TimeStatus
	if err := c.getJSON(ctx, &out, TimeStatusEndpoint); err != nil {
		return nil, fmt.Errorf("get time status: %w", err)
	}
	return &out.Config, nil
}

// GetFTPSettings returns the FTP server settings.
func (c *Client) GetFTPSettings(ctx context.Context) (*FTPSettings, error) {
	var out FTPSettings
	if err := c.getJSON(ctx, &out, FTPSettingsEndpoint); err != nil {
		return nil, fmt.Errorf("get FTP settings: %w", err)
	}
	return &out, nil
}

// GetPermissionsSettings returns the file system permissions mode.
func (c *Client) GetPermissionsSettings(ctx context.Context) (*PermissionsSettings, error) {
	var out PermissionsSettings
	if err := c.getJSON(ctx, &out, PermissionsEndpoint); err != nil {
		return nil, fmt.Errorf("get permissions settings: %w", err)
	}
	return &out, nil
}

// GetAtimeSettings returns the access time settings.
func (c *Client) GetAtimeSettings(ctx context.Context) (*AtimeSettings, error) {
	var out AtimeSettings
	if err := c.getJSON(ctx, &out, AtimeEndpoint); err != nil {
		return nil, fmt.Errorf("get atime settings: %w", err)
	}
	return &out, nil
}

// GetSyslogConfig returns the audit syslog configuration.
func (c *Client) GetSyslogConfig(ctx context.Context) (*SyslogConfig, error) {
	var out SyslogConfig
	if err := c.getJSON(ctx, &out, SyslogConfigEndpoint); err != nil {
		return nil, fmt.Errorf("get syslog config: %w", err)
	}
	return &out, nil
}

// GetCloudWatchConfig returns the audit CloudWatch configuration.
func (c *Client) GetCloudWatchConfig(ctx context.Context) (*CloudWatchConfig, error) {
	var out CloudWatchConfig
	if err := c.getJSON(ctx, &out, CloudWatchConfigEndpoint); err != nil {
		return nil, fmt.Errorf("get cloudwatch config: %w", err)
	}
	return &out, nil
}

// GetWebUISettings returns the web UI settings.
func (c *Client) GetWebUISettings(ctx context.Context) (*WebUISettings, error) {
	var out WebUISettings
	if err := c.getJSON(ctx, &out, WebUIEndpoint); err != nil {
		return nil, fmt.Errorf("get web UI settings: %w", err)
	}
	return &out, nil
}

// ListQuotas returns every directory quota, following the paging cursor.
func (c *Client) ListQuotas(ctx context.Context) ([]Quota, error) {
	var all []Quota
	path := QuotasEndpoint

	for page := 0; path != "" && page < maxPages; page++ {
		var resp quotaPage
		if err := c.do(ctx, http.MethodGet, QuotasEndpoint, path, nil, &resp); err != nil {
			return nil, fmt.Errorf("list quotas page %d: %w", page+1, err)
		}
		all = append(all, resp.Quotas...)
		path = resp.Paging.Next
	}

	return all, nil
}

// ListUsers returns all local users.
func (c *Client) ListUsers(ctx context.Context) ([]LocalUser, error) {
	var out []LocalUser
	if err := c.getJSON(ctx, &out, UsersEndpoint); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// ListGroups returns all local groups.
func (c *Client) ListGroups(ctx context.Context) ([]LocalGroup, error) {
	var out []LocalGroup
	if err := c.getJSON(ctx, &out, GroupsEndpoint); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return out, nil
}

// ListGroupMembers returns the ids of the members of a local group.
func (c *Client) ListGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	var members []LocalUser
	if err := c.getJSON(ctx, &members, GroupMembersEndpoint, groupID); err != nil {
		return nil, fmt.Errorf("list members of group %s: %w", groupID, err)
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID.String())
	}
	return ids, nil
}

// ListRoles returns all RBAC roles sorted by name.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var byName map[string]Role
	if err := c.getJSON(ctx, &byName, RolesEndpoint); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	roles := make([]Role, 0, len(byName))
	for name, r := range byName {
		r.Name = name
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

// ListRoleMembers returns the auth ids assigned to a role, following the paging cursor.
func (c *Client) ListRoleMembers(ctx context.Context, roleName string) ([]string, error) {
	var ids []string
	var resp roleMembersPage
	if err := c.getJSON(ctx, &resp, RoleMembersEndpoint, roleName); err != nil {
		return nil, fmt.Errorf("list members of role %s: %w", roleName, err)
	}

	for page := 1; ; page++ {
		for _, m := range resp.Members {
			ids = append(ids, m.String())
		}
		if resp.Paging.Next == "" || page >= maxPages {
			break
		}
		next := resp.Paging.Next
		resp = roleMembersPage{}
		if err := c.do(ctx, http.MethodGet, RoleMembersEndpoint, next, nil, &resp); err != nil {
			return nil, fmt.Errorf("list members of role %s page %d: %w", roleName, page+1, err)
		}
	}

	return ids, nil
}

// GetSMBSettings returns the global SMB settings.
func (c *Client) GetSMBSettings(ctx context.Context) (*SMBSettings, error) {
	var out SMBSettings
	if err := c.getJSON(ctx, &out, SMBSettingsEndpoint); err != nil {
		return nil, fmt.Errorf("get SMB settings: %w", err)
	}
	return &out, nil
}

// ListSMBShares returns all SMB shares.
func (c *Client) ListSMBShares(ctx context.Context) ([]SMBShare, error) {
	var out []SMBShare
	if err := c.getJSON(ctx, &out, SMBSharesEndpoint); err != nil {
		return nil, fmt.Errorf("list SMB shares: %w", err)
	}
	return out, nil
}

// GetNFSSettings returns the global NFS settings.
func (c *Client) GetNFSSettings(ctx context.Context) (*NFSSettings, error) {
	var out NFSSettings
	if err := c.getJSON(ctx, &out, NFSSettingsEndpoint); err != nil {
		return nil, fmt.Errorf("get NFS settings: %w", err)
	}
	return &out, nil
}

// ListNFSExports returns all NFS exports.
func (c *Client) ListNFSExports(ctx context.Context) ([]NFSExport, error) {
	var out []NFSExport
	if err := c.getJSON(ctx, &out, NFSExportsEndpoint); err != nil {
		return nil, fmt.Errorf("list NFS exports: %w", err)
	}
	return out, nil
}

// ListInterfaces returns all network interfaces.
func (c *Client) ListInterfaces(ctx context.Context) ([]NetworkInterface, error) {
	var out []NetworkInterface
	if err := c.getJSON(ctx, &out, InterfacesEndpoint); err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	return out, nil
}

// ListNetworks returns the networks configured on an interface.
func (c *Client) ListNetworks(ctx context.Context, interfaceID int) ([]Network, error) {
	var out []Network
	if err := c.getJSON(ctx, &out, NetworksEndpoint, interfaceID); err != nil {
		return nil, fmt.Errorf("list networks of interface %d: %w", interfaceID, err)
	}
	return out, nil
}
