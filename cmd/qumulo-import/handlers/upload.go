package handlers

import (
	"context"
	"os"

	"github.com/qumulo/qumulo-import/internal/config"
	"github.com/qumulo/qumulo-import/internal/logging"
	"github.com/qumulo/qumulo-import/internal/platform/s3"
)

const (
	envAWSAccessKey = "AWS_ACCESS_KEY_ID"
	envAWSSecretKey = "AWS_SECRET_ACCESS_KEY"
)

// newObjectWriter connects to the upload store.
var newObjectWriter = func(ctx context.Context, opts s3.Options) (s3.ObjectWriter, error) {
	c, err := s3.NewClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// uploadArtifacts copies files to the configured upload target and returns
// the keys written. It does nothing when no target is configured.
func uploadArtifacts(ctx context.Context, cfg config.UploadConfig, files []string) ([]string, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	target, err := s3.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	w, err := newObjectWriter(ctx, s3.Options{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: os.Getenv(envAWSAccessKey),
		SecretKey: os.Getenv(envAWSSecretKey),
		PathStyle: cfg.PathStyle,
	})
	if err != nil {
		return nil, err
	}

	runID := newRunID()
	logging.FromContext(ctx).Info("Uploading artifacts", "target", target.String(), "run", runID)
	return s3.Upload(ctx, w, target, runID, files)
}
