package main

import (
	"context"
	"fmt"
	"path"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/terasort"
	"github.com/hupe1980/terasort/blobstore"
	"github.com/hupe1980/terasort/blobstore/minio"
	"github.com/hupe1980/terasort/blobstore/s3"
)

func addStoreFlags(fs *pflag.FlagSet) {
	fs.String("store", "local", "where inputs are read and outputs published: local, s3 or minio")
	fs.String("bucket", "", "bucket for s3 and minio stores")
	fs.String("prefix", "", "key prefix (or directory for the local store)")
	fs.String("minio-endpoint", "", "minio endpoint host:port")
	fs.String("minio-access-key", "", "minio access key")
	fs.String("minio-secret-key", "", "minio secret key")
	fs.Bool("minio-secure", true, "use TLS for minio")
	fs.String("publish", "", "publish the finished output under this blob name")
	fs.Bool("publish-report", false, "publish the run report next to the output")
	fs.String("commit-table", "", "DynamoDB table recording published outputs (s3 store only)")
}

type stores struct {
	// input is nil for the default local store.
	input     blobstore.BlobStore
	publisher *terasort.Publisher
}

func openStores(ctx context.Context, v *viper.Viper) (stores, error) {
	var (
		out       stores
		committer terasort.Committer
	)
	switch kind := v.GetString("store"); kind {
	case "local", "":
		if v.GetString("prefix") != "" {
			out.input = blobstore.NewLocalStore(v.GetString("prefix"))
		}
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return stores{}, fmt.Errorf("load aws config: %w", err)
		}
		bucket, prefix := v.GetString("bucket"), v.GetString("prefix")
		store := s3.NewStore(awss3.NewFromConfig(awsCfg), bucket, prefix)
		out.input = store
		if table := v.GetString("commit-table"); table != "" {
			baseURI := "s3://" + path.Join(bucket, prefix)
			committer = s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(awsCfg), table, baseURI)
		}
	case "minio":
		store, err := minio.Dial(
			v.GetString("minio-endpoint"),
			v.GetString("minio-access-key"),
			v.GetString("minio-secret-key"),
			v.GetBool("minio-secure"),
			v.GetString("bucket"),
			v.GetString("prefix"),
		)
		if err != nil {
			return stores{}, err
		}
		out.input = store
	default:
		return stores{}, fmt.Errorf("unknown store %q", kind)
	}

	if name := v.GetString("publish"); name != "" {
		target := out.input
		if target == nil {
			target = blobstore.NewLocalStore("")
		}
		out.publisher = &terasort.Publisher{
			Store:     target,
			Name:      name,
			Report:    v.GetBool("publish-report"),
			Committer: committer,
		}
	}
	return out, nil
}
