// Package s3 uploads run artifacts to S3 or an S3-compatible object store.
//
// Destinations are given as s3://bucket/prefix URLs. Every run writes its
// files under <prefix>/<run-id>/ so repeated runs never overwrite each other.
package s3
