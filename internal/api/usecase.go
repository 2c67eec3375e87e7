package api

import (
	"context"
	"errors"
	"sync"

	"github.com/idilsaglam/storelocator/internal/model"
	"github.com/idilsaglam/storelocator/internal/search"
)

// SearchBoth issues the name and item queries concurrently. Any failure fails
// the whole search so a half result never replaces a complete one.
func SearchBoth(ctx context.Context, svc Service, q search.Query) (byName, byItem model.StoreMap, err error) {
	var (
		wg               sync.WaitGroup
		nameErr, itemErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		byName, nameErr = svc.SearchByName(ctx, q)
	}()
	go func() {
		defer wg.Done()
		byItem, itemErr = svc.SearchByItem(ctx, q)
	}()
	wg.Wait()

	if err := errors.Join(nameErr, itemErr); err != nil {
		return nil, nil, err
	}
	return byName, byItem, nil
}
