package s3

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type fakeWriter struct {
	exists  bool
	headErr error
	putErr  error
	objects map[string]string
}

func (f *fakeWriter) BucketExists(context.Context, string) (bool, error) {
	return f.exists, f.headErr
}

func (f *fakeWriter) PutObject(_ context.Context, bucket, key string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[bucket+"/"+key] = string(data)
	return nil
}

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    Target
		wantErr bool
	}{
		{name: "bucket only", raw: "s3://backups", want: Target{Bucket: "backups"}},
		{name: "bucket with prefix", raw: "s3://backups/qumulo/prod", want: Target{Bucket: "backups", Prefix: "qumulo/prod"}},
		{name: "trailing slash", raw: "s3://backups/qumulo/", want: Target{Bucket: "backups", Prefix: "qumulo"}},
		{name: "wrong scheme", raw: "https://backups/qumulo", wantErr: true},
		{name: "missing bucket", raw: "s3:///qumulo", wantErr: true},
		{name: "not a URL", raw: "backups", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseURL(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseURL(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTarget_Key(t *testing.T) {
	t.Parallel()

	if got := (Target{Bucket: "b", Prefix: "qumulo"}).Key("run-1", "main.tf"); got != "qumulo/run-1/main.tf" {
		t.Errorf("unexpected key %q", got)
	}
	if got := (Target{Bucket: "b"}).Key("run-1", "main.tf"); got != "run-1/main.tf" {
		t.Errorf("unexpected key %q", got)
	}
	if got := (Target{Bucket: "b", Prefix: "x"}).String(); got != "s3://b/x" {
		t.Errorf("unexpected string %q", got)
	}
}

func TestUpload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mainTF := filepath.Join(dir, "main.tf")
	if err := os.WriteFile(mainTF, []byte("terraform {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w := &fakeWriter{exists: true}
	target := Target{Bucket: "backups", Prefix: "qumulo"}

	keys, err := Upload(context.Background(), w, target, "run-1",
		[]string{mainTF, filepath.Join(dir, "terraform.tfstate")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(keys, []string{"qumulo/run-1/main.tf"}) {
		t.Errorf("unexpected keys %v", keys)
	}
	if got := w.objects["backups/qumulo/run-1/main.tf"]; got != "terraform {}\n" {
		t.Errorf("unexpected object body %q", got)
	}
}

func TestUpload_MissingBucket(t *testing.T) {
	t.Parallel()

	_, err := Upload(context.Background(), &fakeWriter{exists: false}, Target{Bucket: "gone"}, "run-1", nil)
	if err == nil || !strings.Contains(err.Error(), "bucket gone does not exist") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpload_PutError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "main.tf")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	putErr := errors.New("denied")
	_, err := Upload(context.Background(), &fakeWriter{exists: true, putErr: putErr}, Target{Bucket: "b"}, "run-1", []string{file})
	if !errors.Is(err, putErr) {
		t.Fatalf("expected put error, got %v", err)
	}
}
