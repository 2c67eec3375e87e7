package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idilsaglam/storelocator/internal/client/transport"
	"github.com/idilsaglam/storelocator/internal/logger"
	"github.com/idilsaglam/storelocator/internal/model"
	"github.com/idilsaglam/storelocator/internal/search"
)

// DefaultBaseURL is the public Liberties shops service.
const DefaultBaseURL = "https://rest-liberties-shops.libertiesshops.workers.dev"

// Service is what the application needs from the search service.
type Service interface {
	AllStores(ctx context.Context) (model.StoreMap, error)
	SearchByName(ctx context.Context, q search.Query) (model.StoreMap, error)
	SearchByItem(ctx context.Context, q search.Query) (model.StoreMap, error)
	Categories(ctx context.Context) (model.CategoryMap, error)
	Types(ctx context.Context) (model.TypeMap, error)
	Inventory(ctx context.Context, q search.Query, storeID int64) (model.ItemMap, error)
	CreateItem(ctx context.Context, it model.NewItem) error
}

type service struct {
	api       *Client
	log       *zap.SugaredLogger
	userAgent string
}

// New wires a Service over doer. An empty baseURL selects DefaultBaseURL.
func New(doer Doer, baseURL string, log *zap.SugaredLogger) Service {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.Nop()
	}

	s := &service{log: log, userAgent: "storelocator/1.0"}
	s.api = NewClient(doer, baseURL, s.applyDefaultHeaders)
	return s
}

func (s *service) applyDefaultHeaders(req *http.Request) {
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(transport.RequestIDHeader, uuid.NewString())
}

func (s *service) AllStores(ctx context.Context) (model.StoreMap, error) {
	return s.api.Stores(ctx, nil)
}

func (s *service) SearchByName(ctx context.Context, q search.Query) (model.StoreMap, error) {
	s.log.Debugw("search stores by name", "text", q.Text, "filters", q.Fragment())
	return s.api.Stores(ctx, q.StoreNameParams())
}

func (s *service) SearchByItem(ctx context.Context, q search.Query) (model.StoreMap, error) {
	s.log.Debugw("search stores by item", "text", q.Text, "filters", q.Fragment())
	return s.api.Stores(ctx, q.ItemParams())
}

func (s *service) Categories(ctx context.Context) (model.CategoryMap, error) {
	return s.api.Categories(ctx)
}

func (s *service) Types(ctx context.Context) (model.TypeMap, error) {
	return s.api.Types(ctx)
}

func (s *service) Inventory(ctx context.Context, q search.Query, storeID int64) (model.ItemMap, error) {
	s.log.Debugw("fetch inventory", "store_id", storeID, "text", q.Text)
	return s.api.Items(ctx, q.InventoryParams(storeID))
}

func (s *service) CreateItem(ctx context.Context, it model.NewItem) error {
	if err := s.api.CreateItem(ctx, it); err != nil {
		s.log.Warnw("create item failed", "store_id", it.StoreID, "err", err)
		return err
	}
	s.log.Infow("item created", "store_id", it.StoreID, "category_id", it.CategoryID, "name", it.Name)
	return nil
}
