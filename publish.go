package terasort

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/terasort/blobstore"
	"github.com/hupe1980/terasort/internal/fs"
)

// Committer records a published output, e.g. as the latest version in a
// commit table.
type Committer interface {
	Commit(ctx context.Context, name string) (uint64, error)
}

// Publisher copies the finished output into a blob store.
type Publisher struct {
	// Store receives the output.
	Store blobstore.BlobStore
	// Name is the blob name of the output.
	Name string
	// Report, when true, also uploads rank 0's report as Name + ".report.json".
	Report bool
	// Committer, when set, is called after every upload succeeded.
	Committer Committer
}

// PublishResult describes a published output.
type PublishResult struct {
	Name       string `json:"name"`
	Bytes      int64  `json:"bytes"`
	ReportName string `json:"report,omitempty"`
	Version    uint64 `json:"version,omitempty"`
}

// Publish uploads the local file at path and, if configured, the report,
// then commits the upload.
func (p *Publisher) Publish(ctx context.Context, path string, report *Report) (*PublishResult, error) {
	return p.publish(ctx, fs.Default, path, report)
}

func (p *Publisher) publish(ctx context.Context, fsys fs.FileSystem, path string, report *Report) (*PublishResult, error) {
	if p.Store == nil || p.Name == "" {
		return nil, fmt.Errorf("%w: publisher needs a store and a name", ErrInvalidConfig)
	}
	res := &PublishResult{Name: p.Name}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := fs.Open(fsys, path)
		if err != nil {
			return err
		}
		defer f.Close()
		n, err := blobstore.Upload(gctx, p.Store, p.Name, f)
		if err != nil {
			return fmt.Errorf("upload %s: %w", p.Name, err)
		}
		res.Bytes = n
		return nil
	})
	if p.Report && report != nil {
		res.ReportName = p.Name + ".report.json"
		g.Go(func() error {
			data, err := report.JSON()
			if err != nil {
				return err
			}
			if err := p.Store.Put(gctx, res.ReportName, data); err != nil {
				return fmt.Errorf("upload %s: %w", res.ReportName, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if p.Committer != nil {
		v, err := p.Committer.Commit(ctx, p.Name)
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", p.Name, err)
		}
		res.Version = v
	}
	return res, nil
}
