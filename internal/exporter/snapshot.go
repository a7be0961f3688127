package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-logr/logr"

	"github.com/qumulo/qumulo-import/internal/qumulo"
)

// Snapshot is the raw settings of the selected features, keyed by feature
// name. Values are the API responses as sent, so fields this tool does not
// model are kept. It marshals to a JSON object whose keys keep execution
// order.
type Snapshot struct {
	entries []snapshotEntry
}

type snapshotEntry struct {
	key   string
	value any
}

// ActiveDirectory pairs the advanced settings with the join status.
type ActiveDirectory struct {
	Settings json.RawMessage `json:"settings"`
	AD       json.RawMessage `json:"ad"`
}

// FileSystemSettings pairs the permissions mode with the atime settings.
type FileSystemSettings struct {
	Perms json.RawMessage `json:"perms"`
	Atime json.RawMessage `json:"atime"`
}

func (s *Snapshot) set(key string, value any) {
	s.entries = append(s.entries, snapshotEntry{key: key, value: value})
}

// Get returns the value stored under key.
func (s *Snapshot) Get(key string) (any, bool) {
	for _, e := range s.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// Keys returns the keys in the order they were collected.
func (s *Snapshot) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.key
	}
	return keys
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.value)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", e.key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TakeSnapshot fetches the settings of every selected feature. Groups and
// roles carry their members; interfaces add a "networks" entry keyed by
// interface id. A failed SSL CA fetch is logged and the key omitted.
func TakeSnapshot(ctx context.Context, src RawSource, sel Selection) (*Snapshot, error) {
	logger := logr.FromContextOrDiscard(ctx)
	snap := &Snapshot{}

	for _, f := range sel.Features() {
		if err := collect(ctx, src, f, snap); err != nil {
			if f == FeatureSSLCA {
				logger.Error(err, "Unable to get SSL CA")
				continue
			}
			return nil, fmt.Errorf("snapshot %s: %w", f, err)
		}
	}
	return snap, nil
}

// endpoints of the features dumped as a single response.
var endpoints = map[Feature]string{
	FeatureClusterName: qumulo.ClusterSettingsEndpoint,
	FeatureMonitoring:  qumulo.MonitoringEndpoint,
	FeatureSSLCA:       qumulo.SSLCAEndpoint,
	FeatureLDAP:        qumulo.LDAPSettingsEndpoint,
	FeatureFTP:         qumulo.FTPSettingsEndpoint,
	FeatureAuditLog:    qumulo.SyslogConfigEndpoint,
	FeatureCloudWatch:  qumulo.CloudWatchConfigEndpoint,
	FeatureWebUI:       qumulo.WebUIEndpoint,
	FeatureLocalUsers:  qumulo.UsersEndpoint,
	FeatureSMBSettings: qumulo.SMBSettingsEndpoint,
	FeatureSMBShares:   qumulo.SMBSharesEndpoint,
	FeatureNFSSettings: qumulo.NFSSettingsEndpoint,
	FeatureNFSExports:  qumulo.NFSExportsEndpoint,
}

func collect(ctx context.Context, src RawSource, f Feature, snap *Snapshot) error {
	key := string(f)
	if endpoint, ok := endpoints[f]; ok {
		v, err := src.GetRaw(ctx, endpoint)
		if err != nil {
			return err
		}
		snap.set(key, v)
		return nil
	}

	switch f {
	case FeatureActiveDirectory:
		settings, err := src.GetRaw(ctx, qumulo.ADSettingsEndpoint)
		if err != nil {
			return err
		}
		status, err := src.GetRaw(ctx, qumulo.ADMonitorEndpoint)
		if err != nil {
			return err
		}
		snap.set(key, ActiveDirectory{Settings: settings, AD: status})
	case FeatureTimeConfig:
		raw, err := src.GetRaw(ctx, qumulo.TimeStatusEndpoint)
		if err != nil {
			return err
		}
		var status struct {
			Config json.RawMessage `json:"config"`
		}
		if err := json.Unmarshal(raw, &status); err != nil {
			return fmt.Errorf("parse time status: %w", err)
		}
		snap.set(key, status.Config)
	case FeatureFSSettings:
		perms, err := src.GetRaw(ctx, qumulo.PermissionsEndpoint)
		if err != nil {
			return err
		}
		atime, err := src.GetRaw(ctx, qumulo.AtimeEndpoint)
		if err != nil {
			return err
		}
		snap.set(key, FileSystemSettings{Perms: perms, Atime: atime})
	case FeatureQuotas:
		quotas, err := src.ListRaw(ctx, "quotas", qumulo.QuotasEndpoint)
		if err != nil {
			return err
		}
		snap.set(key, nonNil(quotas))
	case FeatureLocalGroups:
		groups, err := collectGroups(ctx, src)
		if err != nil {
			return err
		}
		snap.set(key, groups)
	case FeatureRoles:
		roles, err := collectRoles(ctx, src)
		if err != nil {
			return err
		}
		snap.set(key, roles)
	case FeatureInterfaces:
		interfaces, networks, err := collectInterfaces(ctx, src)
		if err != nil {
			return err
		}
		snap.set(key, interfaces)
		snap.set("networks", networks)
	default:
		return fmt.Errorf("unknown feature %q", f)
	}
	return nil
}

// collectGroups adds the member ids of each group as "members".
func collectGroups(ctx context.Context, src RawSource) ([]json.RawMessage, error) {
	groups, err := getList(ctx, src, qumulo.GroupsEndpoint)
	if err != nil {
		return nil, err
	}

	for i, g := range groups {
		var head struct {
			ID qumulo.FlexString `json:"id"`
		}
		if err := json.Unmarshal(g, &head); err != nil {
			return nil, fmt.Errorf("parse group: %w", err)
		}

		var members []struct {
			ID qumulo.FlexString `json:"id"`
		}
		raw, err := src.GetRaw(ctx, qumulo.GroupMembersEndpoint, head.ID.String())
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &members); err != nil {
			return nil, fmt.Errorf("parse members of group %s: %w", head.ID, err)
		}

		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID.String())
		}
		if groups[i], err = withField(g, "members", ids); err != nil {
			return nil, fmt.Errorf("group %s: %w", head.ID, err)
		}
	}
	return groups, nil
}

// collectRoles keys roles by name like the API and adds their members.
func collectRoles(ctx context.Context, src RawSource) (map[string]json.RawMessage, error) {
	raw, err := src.GetRaw(ctx, qumulo.RolesEndpoint)
	if err != nil {
		return nil, err
	}
	var roles map[string]json.RawMessage
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, fmt.Errorf("parse roles: %w", err)
	}

	names := make([]string, 0, len(roles))
	for name := range roles {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]json.RawMessage, len(roles))
	for _, name := range names {
		members, err := src.ListRaw(ctx, "members", qumulo.RoleMembersEndpoint, name)
		if err != nil {
			return nil, err
		}
		if out[name], err = withField(roles[name], "members", nonNil(members)); err != nil {
			return nil, fmt.Errorf("role %s: %w", name, err)
		}
	}
	return out, nil
}

// collectInterfaces returns the interfaces and their networks keyed by
// interface id.
func collectInterfaces(ctx context.Context, src RawSource) ([]json.RawMessage, map[string]json.RawMessage, error) {
	interfaces, err := getList(ctx, src, qumulo.InterfacesEndpoint)
	if err != nil {
		return nil, nil, err
	}

	networks := make(map[string]json.RawMessage, len(interfaces))
	for _, i := range interfaces {
		var head struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(i, &head); err != nil {
			return nil, nil, fmt.Errorf("parse interface: %w", err)
		}
		n, err := src.GetRaw(ctx, qumulo.NetworksEndpoint, head.ID)
		if err != nil {
			return nil, nil, err
		}
		networks[strconv.Itoa(head.ID)] = n
	}
	return interfaces, networks, nil
}

func getList(ctx context.Context, src RawSource, endpoint string) ([]json.RawMessage, error) {
	raw, err := src.GetRaw(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", endpoint, err)
	}
	return nonNil(items), nil
}

// withField appends key to a JSON object, keeping the fields and field
// order the API sent.
func withField(obj json.RawMessage, key string, value any) (json.RawMessage, error) {
	body := bytes.TrimSpace(obj)
	if len(body) < 2 || body[0] != '{' || body[len(body)-1] != '}' {
		return nil, fmt.Errorf("expected a JSON object, got %.40q", body)
	}
	k, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+len(k)+len(v)+2)
	out = append(out, body[:len(body)-1]...)
	if len(bytes.TrimSpace(body[1:len(body)-1])) > 0 {
		out = append(out, ',')
	}
	out = append(out, k...)
	out = append(out, ':')
	out = append(out, v...)
	out = append(out, '}')
	return out, nil
}

// nonNil keeps empty lists as [] rather than null in the dump.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
