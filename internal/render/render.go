// Package render turns Qumulo settings into Terraform resource blocks.
//
// Every block is produced together with the import targets for the
// resources it declares, so the label written to the configuration and the
// address handed to terraform import always come from the same value.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"text/template"

	"github.com/qumulo/qumulo-import/internal/qumulo"
	"github.com/qumulo/qumulo-import/internal/terraform"
)

//go:embed templates/*.tf.tmpl
var templatesFS embed.FS

// Placeholders written in place of Active Directory credentials, which the
// API never returns.
const (
	ADUsernamePlaceholder = "insert_ad_username_here"
	ADPasswordPlaceholder = "insert_ad_password_here"
)

// singletonID is the import id of resources that exist once per cluster.
const singletonID = "1"

// Resource types emitted by the renderer.
const (
	TypeClusterName      = "qumulo_cluster_name"
	TypeMonitoring       = "qumulo_monitoring"
	TypeSSLCA            = "qumulo_ssl_ca"
	TypeADSettings       = "qumulo_ad_settings"
	TypeLDAPServer       = "qumulo_ldap_server"
	TypeTimeConfig       = "qumulo_time_configuration"
	TypeFTPServer        = "qumulo_ftp_server"
	TypeFSSettings       = "qumulo_file_system_settings"
	TypeSyslog           = "qumulo_syslog"
	TypeCloudWatch       = "qumulo_cloudwatch"
	TypeWebUI            = "qumulo_web_ui"
	TypeDirectoryQuota   = "qumulo_directory_quota"
	TypeLocalUser        = "qumulo_local_user"
	TypeLocalGroup       = "qumulo_local_group"
	TypeLocalGroupMember = "qumulo_local_group_member"
	TypeRole             = "qumulo_role"
	TypeRoleMember       = "qumulo_role_member"
	TypeSMBServer        = "qumulo_smb_server"
	TypeSMBShare         = "qumulo_smb_share"
	TypeNFSSettings      = "qumulo_nfs_settings"
	TypeNFSExport        = "qumulo_nfs_export"
	TypeInterface        = "qumulo_interface_configuration"
	TypeNetwork          = "qumulo_network_configuration"
)

// Block is one rendered resource block and the imports that bind it.
type Block struct {
	Address terraform.Address
	Text    string
	Imports []terraform.Import
}

// Renderer renders resource blocks. Resource names are unique per type for
// the lifetime of a Renderer, so one Renderer should be used per output file.
type Renderer struct {
	tmpl *template.Template
	used map[string]bool
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templatesFS, "templates/*.tf.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, used: make(map[string]bool)}, nil
}

// address returns a sanitized address for name. When the type already
// used that name, the first free suffix of _2, _3, ... is appended.
func (r *Renderer) address(resourceType, name string) terraform.Address {
	addr := terraform.NewAddress(resourceType, name)
	base := addr.Name
	for n := 2; r.used[addr.Resource()]; n++ {
		addr.Name = base + "_" + strconv.Itoa(n)
	}
	r.used[addr.Resource()] = true
	return addr
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// single renders a block that declares one resource imported by id.
func (r *Renderer) single(tmplName string, addr terraform.Address, id string, data map[string]any) (Block, error) {
	data["Addr"] = addr
	text, err := r.execute(tmplName, data)
	if err != nil {
		return Block{}, err
	}
	return Block{
		Address: addr,
		Text:    text,
		Imports: []terraform.Import{{Address: addr, ID: id}},
	}, nil
}

// Provider renders the terraform block that pins the provider source.
func (r *Renderer) Provider(source string) (string, error) {
	return r.execute("provider.tf.tmpl", map[string]any{"Source": source})
}

// ClusterName renders qumulo_cluster_name.name.
func (r *Renderer) ClusterName(s *qumulo.ClusterSettings) (Block, error) {
	return r.single("cluster_name.tf.tmpl", r.address(TypeClusterName, "name"), singletonID,
		map[string]any{"Settings": s})
}

// Monitoring renders qumulo_monitoring.settings.
func (r *Renderer) Monitoring(s *qumulo.MonitoringSettings) (Block, error) {
	return r.single("monitoring.tf.tmpl", r.address(TypeMonitoring, "settings"), singletonID,
		map[string]any{"Settings": s})
}

// SSLCA renders qumulo_ssl_ca.certificate with the certificate as a heredoc.
func (r *Renderer) SSLCA(ca *qumulo.SSLCA) (Block, error) {
	return r.single("ssl_ca.tf.tmpl", r.address(TypeSSLCA, "certificate"), singletonID,
		map[string]any{"CA": ca})
}

// ActiveDirectory renders qumulo_ad_settings.ad_settings. Credentials are
// written as placeholders.
func (r *Renderer) ActiveDirectory(status *qumulo.ADStatus, settings *qumulo.ADSettings) (Block, error) {
	return r.single("active_directory.tf.tmpl", r.address(TypeADSettings, "ad_settings"), singletonID,
		map[string]any{
			"Status":   status,
			"Settings": settings,
			"Username": ADUsernamePlaceholder,
			"Password": ADPasswordPlaceholder,
		})
}

// LDAP renders qumulo_ldap_server.server.
func (r *Renderer) LDAP(s *qumulo.LDAPSettings) (Block, error) {
	return r.single("ldap.tf.tmpl", r.address(TypeLDAPServer, "server"), singletonID,
		map[string]any{"Settings": s})
}

// TimeConfig renders qumulo_time_configuration.time_config.
func (r *Renderer) TimeConfig(c *qumulo.TimeConfig) (Block, error) {
	return r.single("time_config.tf.tmpl", r.address(TypeTimeConfig, "time_config"), singletonID,
		map[string]any{"Config": c})
}

// FTP renders qumulo_ftp_server.settings.
func (r *Renderer) FTP(s *qumulo.FTPSettings) (Block, error) {
	return r.single("ftp.tf.tmpl", r.address(TypeFTPServer, "settings"), singletonID,
		map[string]any{"Settings": s})
}

// FileSystem renders qumulo_file_system_settings.settings from the
// permissions and atime settings.
func (r *Renderer) FileSystem(perms *qumulo.PermissionsSettings, atime *qumulo.AtimeSettings) (Block, error) {
	return r.single("fs_settings.tf.tmpl", r.address(TypeFSSettings, "settings"), singletonID,
		map[string]any{"Permissions": perms, "Atime": atime})
}

// AuditLog renders qumulo_syslog.config.
func (r *Renderer) AuditLog(c *qumulo.SyslogConfig) (Block, error) {
	return r.single("audit_log.tf.tmpl", r.address(TypeSyslog, "config"), singletonID,
		map[string]any{"Config": c})
}

// CloudWatch renders qumulo_cloudwatch.config.
func (r *Renderer) CloudWatch(c *qumulo.CloudWatchConfig) (Block, error) {
	return r.single("cloudwatch.tf.tmpl", r.address(TypeCloudWatch, "config"), singletonID,
		map[string]any{"Config": c})
}

// WebUI renders qumulo_web_ui.settings. The inactivity_timeout block is
// required by the provider and is written even when the cluster sent none.
func (r *Renderer) WebUI(s *qumulo.WebUISettings) (Block, error) {
	var timeout string
	if s.InactivityTimeout != nil {
		timeout = s.InactivityTimeout.Nanoseconds.String()
	}
	return r.single("web_ui.tf.tmpl", r.address(TypeWebUI, "settings"), singletonID,
		map[string]any{"Settings": s, "Timeout": timeout})
}

// Quota renders qumulo_directory_quota.quota<ID>.
func (r *Renderer) Quota(q qumulo.Quota) (Block, error) {
	return r.single("quota.tf.tmpl", r.address(TypeDirectoryQuota, "quota"+q.ID.String()), q.ID.String(),
		map[string]any{"Quota": q})
}

// LocalUser renders a qumulo_local_user named after the user.
func (r *Renderer) LocalUser(u qumulo.LocalUser) (Block, error) {
	return r.single("local_user.tf.tmpl", r.address(TypeLocalUser, u.Name), u.ID.String(),
		map[string]any{"User": u})
}

// LocalGroup renders a qumulo_local_group named after the group.
func (r *Renderer) LocalGroup(g qumulo.LocalGroup) (Block, error) {
	return r.single("local_group.tf.tmpl", r.address(TypeLocalGroup, g.Name), g.ID.String(),
		map[string]any{"Group": g})
}

// GroupMembers renders the for_each member resource of the group declared
// at parent. Each member id becomes one import.
func (r *Renderer) GroupMembers(parent terraform.Address, g qumulo.LocalGroup, memberIDs []string) (Block, error) {
	addr := r.address(TypeLocalGroupMember, parent.Name)
	return r.members("local_group_member.tf.tmpl", addr, parent, g.ID.String(), memberIDs)
}

// Role renders a qumulo_role named after the role. Roles import by name.
func (r *Renderer) Role(role qumulo.Role) (Block, error) {
	return r.single("role.tf.tmpl", r.address(TypeRole, role.Name), role.Name,
		map[string]any{"Role": role})
}

// RoleMembers renders the for_each member resource of the role declared
// at parent.
func (r *Renderer) RoleMembers(parent terraform.Address, role qumulo.Role, authIDs []string) (Block, error) {
	addr := r.address(TypeRoleMember, parent.Name)
	return r.members("role_member.tf.tmpl", addr, parent, role.Name, authIDs)
}

func (r *Renderer) members(tmplName string, addr, parent terraform.Address, parentID string, ids []string) (Block, error) {
	text, err := r.execute(tmplName, map[string]any{
		"Addr":    addr,
		"Parent":  parent,
		"Members": ids,
	})
	if err != nil {
		return Block{}, err
	}

	imports := make([]terraform.Import, 0, len(ids))
	for _, id := range ids {
		imports = append(imports, terraform.Import{Address: addr.WithKey(id), ID: parentID + ":" + id})
	}
	return Block{Address: addr, Text: text, Imports: imports}, nil
}

// SMBServer renders qumulo_smb_server.settings.
func (r *Renderer) SMBServer(s *qumulo.SMBSettings) (Block, error) {
	return r.single("smb_settings.tf.tmpl", r.address(TypeSMBServer, "settings"), singletonID,
		map[string]any{"Settings": s})
}

// SMBShare renders a qumulo_smb_share named after the share.
func (r *Renderer) SMBShare(s qumulo.SMBShare) (Block, error) {
	return r.single("smb_share.tf.tmpl", r.address(TypeSMBShare, s.ShareName), s.ID.String(),
		map[string]any{"Share": s})
}

// NFSSettings renders qumulo_nfs_settings.settings.
func (r *Renderer) NFSSettings(s *qumulo.NFSSettings) (Block, error) {
	return r.single("nfs_settings.tf.tmpl", r.address(TypeNFSSettings, "settings"), singletonID,
		map[string]any{"Settings": s})
}

// NFSExport renders qumulo_nfs_export.export<ID>.
func (r *Renderer) NFSExport(e qumulo.NFSExport) (Block, error) {
	return r.single("nfs_export.tf.tmpl", r.address(TypeNFSExport, "export"+e.ID.String()), e.ID.String(),
		map[string]any{"Export": e})
}

// Interface renders a qumulo_interface_configuration named after the interface.
func (r *Renderer) Interface(i qumulo.NetworkInterface) (Block, error) {
	return r.single("interface.tf.tmpl", r.address(TypeInterface, i.Name), strconv.Itoa(i.ID),
		map[string]any{"Interface": i})
}

// Network renders qumulo_network_configuration.i<interface>n<network>.
func (r *Renderer) Network(interfaceID int, n qumulo.Network) (Block, error) {
	name := fmt.Sprintf("i%dn%d", interfaceID, n.ID)
	return r.single("network.tf.tmpl", r.address(TypeNetwork, name), fmt.Sprintf("%d:%d", interfaceID, n.ID),
		map[string]any{"InterfaceID": interfaceID, "Network": n})
}
