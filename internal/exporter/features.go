package exporter

import (
	"fmt"
	"strings"
)

// Feature is one independently selectable configuration category.
type Feature string

// Features in execution order.
const (
	FeatureClusterName     Feature = "cluster_name"
	FeatureMonitoring      Feature = "monitoring"
	FeatureSSLCA           Feature = "ssl_ca"
	FeatureActiveDirectory Feature = "active_directory"
	FeatureLDAP            Feature = "ldap"
	FeatureTimeConfig      Feature = "time_config"
	FeatureFTP             Feature = "ftp"
	FeatureFSSettings      Feature = "fs_settings"
	FeatureAuditLog        Feature = "audit_log"
	FeatureCloudWatch      Feature = "cloudwatch"
	FeatureWebUI           Feature = "web_ui"
	FeatureQuotas          Feature = "quotas"
	FeatureLocalUsers      Feature = "local_users"
	FeatureLocalGroups     Feature = "local_groups"
	FeatureRoles           Feature = "roles"
	FeatureSMBSettings     Feature = "smb_settings"
	FeatureSMBShares       Feature = "smb_shares"
	FeatureNFSSettings     Feature = "nfs_settings"
	FeatureNFSExports      Feature = "nfs_exports"
	FeatureInterfaces      Feature = "interfaces"
)

var allFeatures = []Feature{
	FeatureClusterName,
	FeatureMonitoring,
	FeatureSSLCA,
	FeatureActiveDirectory,
	FeatureLDAP,
	FeatureTimeConfig,
	FeatureFTP,
	FeatureFSSettings,
	FeatureAuditLog,
	FeatureCloudWatch,
	FeatureWebUI,
	FeatureQuotas,
	FeatureLocalUsers,
	FeatureLocalGroups,
	FeatureRoles,
	FeatureSMBSettings,
	FeatureSMBShares,
	FeatureNFSSettings,
	FeatureNFSExports,
	FeatureInterfaces,
}

// optIn features are only exported when selected explicitly.
var optIn = map[Feature]bool{
	FeatureCloudWatch: true,
	FeatureWebUI:      true,
}

// AllFeatures returns every supported feature in execution order.
func AllFeatures() []Feature {
	out := make([]Feature, len(allFeatures))
	copy(out, allFeatures)
	return out
}

// DefaultEnabled reports whether f is exported when no selection is given.
func (f Feature) DefaultEnabled() bool {
	return !optIn[f]
}

// UnsupportedFeatureError is returned for an unknown feature key.
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	keys := make([]string, len(allFeatures))
	for i, f := range allFeatures {
		keys[i] = string(f)
	}
	return fmt.Sprintf("Feature %s not supported. Supported features include [%s]", e.Feature, strings.Join(keys, ", "))
}

// Selection is the set of enabled features.
type Selection map[Feature]bool

// DefaultSelection enables every feature that is on by default.
func DefaultSelection() Selection {
	s := Selection{}
	for _, f := range allFeatures {
		s[f] = f.DefaultEnabled()
	}
	return s
}

// ParseSelection builds a selection from feature keys. Keys may also be
// comma or space separated within one argument. With no keys the default
// selection is returned; otherwise only the named features are enabled.
func ParseSelection(keys []string) (Selection, error) {
	var names []string
	for _, k := range keys {
		names = append(names, strings.FieldsFunc(k, func(r rune) bool { return r == ',' || r == ' ' })...)
	}
	if len(names) == 0 {
		return DefaultSelection(), nil
	}

	known := make(map[Feature]bool, len(allFeatures))
	for _, f := range allFeatures {
		known[f] = true
	}

	s := Selection{}
	for _, name := range names {
		f := Feature(strings.TrimSpace(name))
		if !known[f] {
			return nil, &UnsupportedFeatureError{Feature: name}
		}
		s[f] = true
	}
	return s, nil
}

// Enabled reports whether f is selected.
func (s Selection) Enabled(f Feature) bool {
	return s[f]
}

// Features returns the selected features in execution order.
func (s Selection) Features() []Feature {
	var out []Feature
	for _, f := range allFeatures {
		if s[f] {
			out = append(out, f)
		}
	}
	return out
}
