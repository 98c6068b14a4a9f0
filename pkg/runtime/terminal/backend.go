package terminal

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/de-tools/business-pulse/pkg/app"
	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/models/store"
	"github.com/de-tools/business-pulse/pkg/runtime/terminal/commands"
	"github.com/de-tools/business-pulse/pkg/services/config"
	"github.com/de-tools/business-pulse/pkg/services/report"
	"github.com/de-tools/business-pulse/pkg/services/workflow"
)

type appBackend struct {
	app *app.App
}

// ConnectApp loads the configuration and wires the application behind the CLI.
func ConnectApp(ctx context.Context, configPath string) (commands.Backend, io.Closer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return &appBackend{app: a}, a, nil
}

func (b *appBackend) Generate(ctx context.Context, req report.Request) (*domain.Report, error) {
	return b.app.Generator.Generate(ctx, req)
}

func (b *appBackend) Summary(ctx context.Context, businessID string) (*domain.Summary, error) {
	return b.app.Generator.Summary(ctx, businessID)
}

func (b *appBackend) Brief(ctx context.Context, businessID string, day time.Time) (domain.Brief, error) {
	business, err := b.app.Facts.GetBusiness(ctx, businessID)
	if err != nil {
		return domain.Brief{}, err
	}
	return b.app.Briefs.Compose(ctx, business, day)
}

func (b *appBackend) Publish(ctx context.Context, r *domain.Report) error {
	if b.app.Publisher == nil {
		return fmt.Errorf("publishing requires s3.bucket to be configured")
	}
	return b.app.Publisher.Publish(ctx, r)
}

func (b *appBackend) ListBusinessIDs(ctx context.Context) ([]string, error) {
	businesses, err := b.app.FactsStore.ListBusinesses(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(businesses))
	for _, bs := range businesses {
		ids = append(ids, bs.ID)
	}
	return ids, nil
}

func (b *appBackend) Import(ctx context.Context, d store.Dataset) error {
	return b.app.FactsStore.Import(ctx, d)
}

func (b *appBackend) RunBatch(ctx context.Context, batch workflow.Batch, progress func(workflow.RunnerProgress)) []workflow.ItemResult {
	runner := b.app.NewRunner(batch)
	go runner.Run(ctx)
	for p := range runner.Progress() {
		if progress != nil {
			progress(p)
		}
	}
	<-runner.Done()
	return runner.Results()
}
