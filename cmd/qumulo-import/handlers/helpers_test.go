package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/qumulo/qumulo-import/internal/config"
	"github.com/qumulo/qumulo-import/internal/platform/s3"
	"github.com/qumulo/qumulo-import/internal/terraform"
	"github.com/qumulo/qumulo-import/internal/util/prerequisites"
)

// clusterRoutes is a small but complete cluster. The SSL CA endpoint is
// missing so that feature is skipped.
func clusterRoutes() map[string]string {
	return map[string]string{
		"/v1/cluster/settings": `{"cluster_name":"qfs-test"}`,
		"/v1/support/settings": `{"enabled":true,"mq_host":"missionq.qumulo.com","mq_port":443,"mq_proxy_host":"","mq_proxy_port":0,
			"s3_proxy_host":"monitor.qumulo.com","s3_proxy_port":443,"s3_proxy_disable_https":false,"vpn_enabled":true,
			"vpn_host":"ep1.qumulo.com","period":60}`,
		"/v1/ad/monitor":  `{"status":"LEFT","domain":"","domain_netbios":"","ou":"","base_dn":"","use_ad_posix_attributes":false}`,
		"/v1/ad/settings": `{"signing":"WANT_SIGNING","sealing":"WANT_SEALING","crypto":"WANT_AES"}`,
		"/v2/ldap/settings": `{"use_ldap":false,"bind_uri":"","user":"","base_distinguished_names":"","ldap_schema":"RFC2307",
			"ldap_schema_description":{},"encrypt_connection":true}`,
		"/v1/time/status":   `{"config":{"use_ad_for_primary":false,"ntp_servers":["0.pool.ntp.org"]},"time":"2026-10-16T00:00:00Z"}`,
		"/v0/ftp/settings": `{"enabled":false,"check_remote_host":true,"log_operations":true,"chroot_users":false,
			"allow_unencrypted_connections":false,"expand_wildcards":false,"anonymous_user":null,"greeting":""}`,
		"/v1/file-system/settings/permissions": `{"mode":"CROSS_PROTOCOL"}`,
		"/v1/file-system/settings/atime":       `{"enabled":false,"granularity":"HOUR"}`,
		"/v1/audit/syslog/config":              `{"enabled":false,"server_address":"","server_port":514}`,
		"/v1/files/quotas/":                    `{"quotas":[{"id":"1003","limit":"1000000000"}],"paging":{"next":""}}`,
		"/v1/users/":                           `[{"id":"500","name":"admin","primary_group":"513","sid":"S-1-5-21-500","uid":"","home_directory":null,"can_change_password":true}]`,
		"/v1/groups/":                          `[{"id":"513","name":"Users","sid":"S-1-5-21-513","gid":""}]`,
		"/v1/groups/513/members/":              `[{"id":"500","name":"admin"}]`,
		"/v1/auth/roles/":                      `{"Administrators":{"description":"Full access","privileges":["PRIVILEGE_AD_READ"]}}`,
		"/v1/auth/roles/Administrators/members": `{"members":["500"],"paging":{"next":""}}`,
		"/v1/smb/settings": `{"session_encryption":"NONE","supported_dialects":["SMB2_DIALECT_2_002","SMB2_DIALECT_3_11"],
			"hide_shares_from_unauthorized_users":false,"hide_shares_from_unauthorized_hosts":false,
			"snapshot_directory_mode":"VISIBLE","bypass_traverse_checking":false,"signing_required":false}`,
		"/v2/smb/shares/": `[{"id":"1","share_name":"Files","fs_path":"/","description":"","permissions":[],"network_permissions":[],
			"access_based_enumeration_enabled":false,"default_file_create_mode":"0644","default_directory_create_mode":"0755",
			"bytes_per_sector":"512","require_encryption":false,"tenant_id":1}]`,
		"/v2/nfs/settings": `{"v4_enabled":false,"krb5_enabled":false,"auth_sys_enabled":true}`,
		"/v2/nfs/exports/": `[{"id":"1","export_path":"/","fs_path":"/","description":"",
			"restrictions":[{"host_restrictions":[],"read_only":false,"require_privileged_port":false,"user_mapping":"NFS_MAP_NONE"}],
			"fields_to_present_as_32_bit":[]}]`,
		"/v2/network/interfaces/": `[{"id":1,"name":"bond0","default_gateway":"10.0.0.1","default_gateway_ipv6":"","bonding_mode":"ACTIVE_BACKUP","mtu":1500}]`,
		"/v2/network/interfaces/1/networks/": `[{"id":1,"name":"Default","assigned_by":"DHCP","floating_ip_ranges":[],"dns_servers":[],
			"dns_search_domains":[],"ip_ranges":[],"netmask":"","mtu":1500,"vlan_id":0}]`,
	}
}

// fakeCluster serves routes over TLS behind a bearer login for admin/secret.
type fakeCluster struct {
	*httptest.Server

	mu     sync.Mutex
	logins int
}

func newFakeCluster(routes map[string]string) *fakeCluster {
	fc := &fakeCluster{}
	fc.Server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/session/login" {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Username != "admin" || req.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fc.mu.Lock()
			fc.logins++
			fc.mu.Unlock()
			_, _ = w.Write([]byte(`{"bearer_token":"tok"}`))
			return
		}

		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := routes[r.URL.RequestURI()]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error_class":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	return fc
}

func (fc *fakeCluster) loginCount() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.logins
}

// config returns settings pointing at the fake cluster.
func (fc *fakeCluster) config() *config.Config {
	u, _ := url.Parse(fc.URL)
	host, port, _ := net.SplitHostPort(u.Host)
	return &config.Config{
		Cluster: config.ClusterConfig{
			Host:     host,
			Port:     port,
			Username: "admin",
			Password: "secret",
		},
		Terraform: config.TerraformConfig{ProviderSource: config.DefaultProviderSource},
	}
}

// recordingRunner records terraform invocations instead of running them.
type recordingRunner struct {
	mu      sync.Mutex
	dir     string
	inits   int
	imports []string
	fail    map[string]bool
}

func (r *recordingRunner) Init(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inits++
	return nil
}

func (r *recordingRunner) Import(_ context.Context, address, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports = append(r.imports, address+" "+id)
	if r.fail[address] {
		return errors.New("exit status 1")
	}
	return nil
}

type fakeObjectWriter struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeObjectWriter) BucketExists(context.Context, string) (bool, error) {
	return true, nil
}

func (f *fakeObjectWriter) PutObject(_ context.Context, bucket, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[bucket+"/"+key] = data
	return nil
}

// foundTerraform reports terraform as installed at /usr/bin/terraform.
func foundTerraform(binary string) *prerequisites.CheckResults {
	tool := prerequisites.TerraformTool(binary)
	return &prerequisites.CheckResults{
		Results: []prerequisites.CheckResult{{Tool: tool, Found: true, Path: "/usr/bin/terraform", Version: "Terraform v1.9.8"}},
	}
}

// missingTerraform reports terraform as not installed.
func missingTerraform(binary string) *prerequisites.CheckResults {
	tool := prerequisites.TerraformTool(binary)
	return &prerequisites.CheckResults{
		Results: []prerequisites.CheckResult{{Tool: tool}},
		Missing: []prerequisites.Tool{tool},
	}
}

// useFakes points every factory at the fake cluster and in-memory
// collaborators. Callers restore the factories afterwards.
func useFakes(fc *fakeCluster, runner *recordingRunner, out io.Writer, cfg *config.Config) {
	loadConfig = func(config.LoadOptions) (*config.Config, error) {
		return cfg, nil
	}
	newRunner = func(dir, _ string) (terraform.Runner, error) {
		runner.dir = dir
		return runner, nil
	}
	checkDefaultPrereqs = foundTerraform
	confirmOverwrite = func(context.Context, string) (bool, error) {
		return true, nil
	}
	newObjectWriter = func(context.Context, s3.Options) (s3.ObjectWriter, error) {
		return &fakeObjectWriter{}, nil
	}
	newRunID = func() string { return "run-1" }
	stdout = out
}

// saveFactories returns a func that restores every factory variable.
func saveFactories() func() {
	origLoadConfig := loadConfig
	origNewClient := newClient
	origNewRunner := newRunner
	origCheckDefaultPrereqs := checkDefaultPrereqs
	origConfirmOverwrite := confirmOverwrite
	origCreateFile := createFile
	origNewRunID := newRunID
	origNewObjectWriter := newObjectWriter
	origStdout := stdout

	return func() {
		loadConfig = origLoadConfig
		newClient = origNewClient
		newRunner = origNewRunner
		checkDefaultPrereqs = origCheckDefaultPrereqs
		confirmOverwrite = origConfirmOverwrite
		createFile = origCreateFile
		newRunID = origNewRunID
		newObjectWriter = origNewObjectWriter
		stdout = origStdout
	}
}
