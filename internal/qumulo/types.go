package qumulo

import (
	"encoding/json"
	"fmt"
)

// FlexString decodes a JSON string, number or null into a string.
// Identifiers such as uid, gid and quota ids come back as either type
// depending on the API version.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// Paging is the cursor block returned by paged list endpoints.
type Paging struct {
	Next string `json:"next"`
}

// ClusterSettings is the cluster identity.
type ClusterSettings struct {
	ClusterName string `json:"cluster_name"`
}

// MonitoringSettings configures cloud-based monitoring and remote support.
type MonitoringSettings struct {
	Enabled             bool   `json:"enabled"`
	MQHost              string `json:"mq_host"`
	MQPort              int    `json:"mq_port"`
	MQProxyHost         string `json:"mq_proxy_host"`
	MQProxyPort         int    `json:"mq_proxy_port"`
	S3ProxyHost         string `json:"s3_proxy_host"`
	S3ProxyPort         int    `json:"s3_proxy_port"`
	S3ProxyDisableHTTPS bool   `json:"s3_proxy_disable_https"`
	VPNEnabled          bool   `json:"vpn_enabled"`
	VPNHost             string `json:"vpn_host"`
	Period              int    `json:"period"`
}

// SSLCA is the CA certificate used to verify outbound TLS connections.
type SSLCA struct {
	CACertificate string `json:"ca_certificate"`
}

// ADStatus is the Active Directory join state.
type ADStatus struct {
	Status               string `json:"status"`
	Domain               string `json:"domain"`
	DomainNetBIOS        string `json:"domain_netbios"`
	OU                   string `json:"ou"`
	BaseDN               string `json:"base_dn"`
	UseADPosixAttributes bool   `json:"use_ad_posix_attributes"`
}

// ADSettings are the advanced Active Directory settings.
type ADSettings struct {
	Signing string `json:"signing"`
	Sealing string `json:"sealing"`
	Crypto  string `json:"crypto"`
}

// LDAPSettings configures the LDAP server connection.
type LDAPSettings struct {
	UseLDAP                bool                  `json:"use_ldap"`
	BindURI                string                `json:"bind_uri"`
	User                   string                `json:"user"`
	BaseDistinguishedNames string                `json:"base_distinguished_names"`
	LDAPSchema             string                `json:"ldap_schema"`
	LDAPSchemaDescription  LDAPSchemaDescription `json:"ldap_schema_description"`
	EncryptConnection      bool                  `json:"encrypt_connection"`
}

// LDAPSchemaDescription names the attributes used for custom LDAP schemas.
type LDAPSchemaDescription struct {
	GroupMemberAttribute         string `json:"group_member_attribute"`
	UserGroupIdentifierAttribute string `json:"user_group_identifier_attribute"`
	LoginNameAttribute           string `json:"login_name_attribute"`
	GroupNameAttribute           string `json:"group_name_attribute"`
	UserObjectClass              string `json:"user_object_class"`
	GroupObjectClass             string `json:"group_object_class"`
	UIDNumberAttribute           string `json:"uid_number_attribute"`
	GIDNumberAttribute           string `json:"gid_number_attribute"`
}

// TimeStatus wraps the time configuration.
type TimeStatus struct {
	Config TimeConfig `json:"config"`
}

// TimeConfig selects the cluster's time sources.
type TimeConfig struct {
	UseADForPrimary bool     `json:"use_ad_for_primary"`
	NTPServers      []string `json:"ntp_servers"`
}

// Identity is a typed principal reference such as {"id_type":"LOCAL_USER","id_value":"guest"}.
type Identity struct {
	IDType  string     `json:"id_type"`
	IDValue FlexString `json:"id_value"`
}

// FTPSettings configures the FTP server.
type FTPSettings struct {
	Enabled                     bool      `json:"enabled"`
	CheckRemoteHost             bool      `json:"check_remote_host"`
	LogOperations               bool      `json:"log_operations"`
	ChrootUsers                 bool      `json:"chroot_users"`
	AllowUnencryptedConnections bool      `json:"allow_unencrypted_connections"`
	ExpandWildcards             bool      `json:"expand_wildcards"`
	AnonymousUser               *Identity `json:"anonymous_user"`
	Greeting                    string    `json:"greeting"`
}

// PermissionsSettings is the file system permissions mode.
type PermissionsSettings struct {
	Mode string `json:"mode"`
}

// AtimeSettings controls access time tracking.
type AtimeSettings struct {
	Enabled     bool   `json:"enabled"`
	Granularity string `json:"granularity"`
}

// SyslogConfig configures audit logging to a remote syslog server.
type SyslogConfig struct {
	Enabled       bool   `json:"enabled"`
	ServerAddress string `json:"server_address"`
	ServerPort    int    `json:"server_port"`
}

// CloudWatchConfig configures audit logging to CloudWatch.
type CloudWatchConfig struct {
	Enabled      bool   `json:"enabled"`
	LogGroupName string `json:"log_group_name"`
	Region       string `json:"region"`
}

// Quota is a directory quota keyed by the directory's file id.
type Quota struct {
	ID    FlexString `json:"id"`
	Limit FlexString `json:"limit"`
}

type quotaPage struct {
	Quotas []Quota `json:"quotas"`
	Paging Paging  `json:"paging"`
}

// LocalUser is a cluster-local user account.
type LocalUser struct {
	ID                FlexString `json:"id"`
	Name              string     `json:"name"`
	PrimaryGroup      FlexString `json:"primary_group"`
	SID               string     `json:"sid"`
	UID               FlexString `json:"uid"`
	HomeDirectory     string     `json:"home_directory"`
	CanChangePassword bool       `json:"can_change_password"`
}

// LocalGroup is a cluster-local group.
type LocalGroup struct {
	ID   FlexString `json:"id"`
	Name string     `json:"name"`
	SID  string     `json:"sid"`
	GID  FlexString `json:"gid"`

	// Members holds member ids when collected for a snapshot.
	Members []string `json:"members"`
}

// Role is an RBAC role. The API keys roles by name.
type Role struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description"`
	Privileges  []string `json:"privileges"`

	// Members holds member auth ids when collected for a snapshot.
	Members []string `json:"members"`
}

type roleMembersPage struct {
	Members []FlexString `json:"members"`
	Paging  Paging       `json:"paging"`
}

// SMBSettings are the global SMB server settings.
type SMBSettings struct {
	SessionEncryption               string   `json:"session_encryption"`
	SupportedDialects               []string `json:"supported_dialects"`
	HideSharesFromUnauthorizedUsers bool     `json:"hide_shares_from_unauthorized_users"`
	HideSharesFromUnauthorizedHosts bool     `json:"hide_shares_from_unauthorized_hosts"`
	SnapshotDirectoryMode           string   `json:"snapshot_directory_mode"`
	BypassTraverseChecking          bool     `json:"bypass_traverse_checking"`
	SigningRequired                 bool     `json:"signing_required"`
}

// SMBShare is a single SMB share.
type SMBShare struct {
	ID                            FlexString             `json:"id"`
	ShareName                     string                 `json:"share_name"`
	FSPath                        string                 `json:"fs_path"`
	Description                   string                 `json:"description"`
	Permissions                   []SMBPermission        `json:"permissions"`
	NetworkPermissions            []SMBNetworkPermission `json:"network_permissions"`
	AccessBasedEnumerationEnabled bool                   `json:"access_based_enumeration_enabled"`
	DefaultFileCreateMode         string                 `json:"default_file_create_mode"`
	DefaultDirectoryCreateMode    string                 `json:"default_directory_create_mode"`
	BytesPerSector                FlexString             `json:"bytes_per_sector"`
	RequireEncryption             bool                   `json:"require_encryption"`
}

// SMBPermission is a share ACE for a trustee.
type SMBPermission struct {
	Type    string   `json:"type"`
	Trustee Trustee  `json:"trustee"`
	Rights  []string `json:"rights"`
}

// Trustee identifies the principal of an SMB permission. Any subset may be set.
type Trustee struct {
	Domain FlexString `json:"domain"`
	Name   FlexString `json:"name"`
	AuthID FlexString `json:"auth_id"`
	UID    FlexString `json:"uid"`
	GID    FlexString `json:"gid"`
	SID    FlexString `json:"sid"`
}

// SMBNetworkPermission is a host-based share ACE.
type SMBNetworkPermission struct {
	Type          string   `json:"type"`
	AddressRanges []string `json:"address_ranges"`
	Rights        []string `json:"rights"`
}

// NFSSettings are the global NFS server settings.
type NFSSettings struct {
	V4Enabled      bool `json:"v4_enabled"`
	Krb5Enabled    bool `json:"krb5_enabled"`
	AuthSysEnabled bool `json:"auth_sys_enabled"`
}

// NFSExport is a single NFS export.
type NFSExport struct {
	ID                     FlexString       `json:"id"`
	ExportPath             string           `json:"export_path"`
	FSPath                 string           `json:"fs_path"`
	Description            string           `json:"description"`
	Restrictions           []NFSRestriction `json:"restrictions"`
	FieldsToPresentAs32Bit []string         `json:"fields_to_present_as_32_bit"`
	AllowFSPathCreate      *bool            `json:"allow_fs_path_create,omitempty"`
}

// NFSRestriction limits which hosts may mount an export and how.
type NFSRestriction struct {
	HostRestrictions      []string  `json:"host_restrictions"`
	ReadOnly              bool      `json:"read_only"`
	RequirePrivilegedPort bool      `json:"require_privileged_port"`
	UserMapping           string    `json:"user_mapping"`
	MapToUser             *Identity `json:"map_to_user,omitempty"`
	MapToGroup            *Identity `json:"map_to_group,omitempty"`
}

// NetworkInterface is a physical or bonded interface.
type NetworkInterface struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	DefaultGateway     string `json:"default_gateway"`
	DefaultGatewayIPv6 string `json:"default_gateway_ipv6"`
	BondingMode        string `json:"bonding_mode"`
	MTU                int    `json:"mtu"`
}

// Network is a network configured on an interface.
type Network struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	AssignedBy       string   `json:"assigned_by"`
	FloatingIPRanges []string `json:"floating_ip_ranges"`
	DNSServers       []string `json:"dns_servers"`
	DNSSearchDomains []string `json:"dns_search_domains"`
	IPRanges         []string `json:"ip_ranges"`
	Netmask          string   `json:"netmask"`
	MTU              int      `json:"mtu"`
	VLANID           int      `json:"vlan_id"`
}

// WebUISettings configures the management web UI.
type WebUISettings struct {
	InactivityTimeout *Timeout `json:"inactivity_timeout"`
	LoginBanner       *string  `json:"login_banner"`
}

// Timeout is a duration as returned by the API.
type Timeout struct {
	Nanoseconds FlexString `json:"nanoseconds"`
}
