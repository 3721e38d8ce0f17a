package main

import (
	"context"
	"fmt"
	"log/slog"

	"code.cloudfoundry.org/clock"

	"github.com/a1s/ntable/internal/aws"
	"github.com/a1s/ntable/internal/config"
	"github.com/a1s/ntable/internal/dao"
	"github.com/a1s/ntable/internal/model"
	"github.com/a1s/ntable/internal/params"
)

// buildTable creates the controller and the params of a resolved binding.
// File sources are read upfront and watched until ctx is done.
func buildTable(ctx context.Context, nt *config.Ntable, t *config.Table, log *slog.Logger) (*model.Controller, *params.Params, error) {
	src, err := t.Preset.SourceSpec()
	if err != nil {
		return nil, nil, err
	}

	var (
		preset  = *t.Preset
		factory = dao.NewFactory(nil, nil, log)
		dataset *dao.DatasetFile
	)
	switch src.Kind {
	case dao.FileSource:
		dataset = dao.NewDatasetFile(src.Target, log)
		rows, err := dataset.Read()
		if err != nil {
			return nil, nil, err
		}
		preset.Data = rows
	case dao.S3Source:
		if factory, err = s3Factory(nt, log); err != nil {
			return nil, nil, err
		}
	}

	loader, err := dao.LoaderFor(factory, src)
	if err != nil {
		return nil, nil, err
	}
	p := params.New(preset.Settings(loader), preset.Options()...)

	ctrl := model.NewController(ctx,
		model.WithLogger(log),
		model.WithDefaultLoader(dao.SliceLoader),
	)
	if dataset != nil {
		if err := dataset.Watch(ctx, ctrl); err != nil {
			ctrl.Close()
			return nil, nil, err
		}
	}
	log.Info("table built",
		"binding", t.Binding.String(),
		"source", src.String(),
		"params", p.ID(),
	)

	return ctrl, p, nil
}

func s3Factory(nt *config.Ntable, log *slog.Logger) (*dao.LoaderFactory, error) {
	timeout, err := nt.GetAPITimeout()
	if err != nil {
		return nil, err
	}
	settings := nt.AWSSettings()
	client, err := aws.NewAPIClient(&aws.ClientConfig{
		Profile: settings.Profile,
		Region:  settings.Region,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}

	return dao.NewFactory(client, dao.NewListCache(dao.DefaultCacheTTL, clock.NewClock()), log), nil
}
