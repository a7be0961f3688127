package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qumulo/qumulo-import/internal/exporter"
	"github.com/qumulo/qumulo-import/internal/terraform"
)

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	out := RenderSummary(Summary{
		ConfigFile: "main.tf",
		Result: &exporter.Result{
			Features:  []exporter.Feature{exporter.FeatureClusterName, exporter.FeatureSSLCA, exporter.FeatureLocalUsers},
			Skipped:   []exporter.Feature{exporter.FeatureSSLCA},
			Resources: 3,
			Imported:  2,
			Failed: []terraform.Import{
				{Address: terraform.NewAddress("qumulo_local_user", "guest"), ID: "501"},
			},
		},
		State: &terraform.State{Resources: []terraform.ResourceState{
			{Mode: "managed", Type: "qumulo_cluster_name", Name: "name", Instances: []terraform.ResourceInstance{{}}},
			{Mode: "managed", Type: "qumulo_local_user", Name: "admin", Instances: []terraform.ResourceInstance{{}}},
		}},
		Uploaded: []string{"qumulo/run-1/main.tf"},
	})

	assert.Contains(t, out, "Config file: main.tf")
	assert.Contains(t, out, checkMark+" cluster_name")
	assert.Contains(t, out, skipMark+" ssl_ca")
	assert.Contains(t, out, "Written:  3")
	assert.Contains(t, out, "In state: 2")
	assert.Contains(t, out, "qumulo_local_user.guest 501")
	assert.Contains(t, out, "qumulo/run-1/main.tf")
}

func TestRenderSummary_NoFailures(t *testing.T) {
	t.Parallel()

	out := RenderSummary(Summary{
		ConfigFile: "main.tf",
		Result:     &exporter.Result{Features: []exporter.Feature{exporter.FeatureQuotas}, Resources: 1, Imported: 1},
	})
	assert.NotContains(t, out, "Failed")
	assert.NotContains(t, out, "Uploaded")
}

func TestPrintFeatures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintFeatures(&buf)

	out := buf.String()
	assert.Contains(t, out, "cluster_name")
	assert.Contains(t, out, "interfaces")
	assert.Regexp(t, `web_ui\s+opt-in`, out)
	assert.Regexp(t, `quotas\s+enabled by default`, out)
}

func TestPrintCheck(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintCheck(&buf, true, "terraform", "/usr/bin/terraform")
	PrintCheck(&buf, false, "login", "")

	out := buf.String()
	assert.Regexp(t, `\[OK\] terraform\s+/usr/bin/terraform`, out)
	assert.Contains(t, out, crossMark+" login\n")
}
