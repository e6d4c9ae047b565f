// Package shared wires the services both apps run on.
package shared

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/insight"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/seed"
	emailsvc "github.com/trezcool/shule/services/email"
	"github.com/trezcool/shule/services/insight/gemini"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage"
	"github.com/trezcool/shule/storage/localstore"
)

type Deps struct {
	Conf       *core.Config
	Logger     core.Logger
	Catalog    *catalog.Catalog
	Medium     core.Storage
	Store      *localstore.Store
	SchoolSvc  *school.Service
	InsightSvc *insight.Service
	MailSvc    core.EmailService
}

// LoadCatalog returns the configured catalog file, or the embedded one.
func LoadCatalog(conf *core.Config) (*catalog.Catalog, error) {
	if conf.CatalogFile == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(conf.CatalogFile)
	if err != nil {
		return nil, errors.Wrap(err, "loading catalog")
	}
	return cat, nil
}

// Setup builds every service from conf. Close the returned Deps when done.
func Setup(ctx context.Context, conf *core.Config) (*Deps, error) {
	logger := logsvc.New(logsvc.NewZeroLogger(os.Stderr, conf), conf)

	cat, err := LoadCatalog(conf)
	if err != nil {
		return nil, err
	}

	medium, err := storage.Open(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening storage")
	}

	gen := seed.NewGenerator(cat, conf.Seed, rand.New(rand.NewSource(time.Now().UnixNano())))
	store := localstore.New(medium, gen.Generate, localstore.WithKey(conf.Storage.Key), localstore.WithLogger(logger))

	var summarizer insight.Summarizer
	if c := gemini.New(conf.Insight); c != nil {
		summarizer = c
	} else {
		logger.Info("insight API key not set, serving demo insights")
	}

	return &Deps{
		Conf:       conf,
		Logger:     logger,
		Catalog:    cat,
		Medium:     medium,
		Store:      store,
		SchoolSvc:  school.NewService(store, cat),
		InsightSvc: insight.NewService(summarizer, conf.Insight.Timeout, logger),
		MailSvc:    emailsvc.New(conf, logger),
	}, nil
}

// Close waits for pending emails then closes the storage medium.
func (d *Deps) Close() error {
	d.MailSvc.Wait()
	if err := d.Medium.Close(); err != nil {
		return errors.Wrap(err, "closing storage")
	}
	return nil
}
