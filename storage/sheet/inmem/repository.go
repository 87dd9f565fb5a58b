// Package inmem is the in-memory Repository used by tests.
package inmem

import (
	"sync"

	"github.com/kuponim/kuponim/core/coupon"
	"github.com/kuponim/kuponim/storage/sheet"
)

type Repository struct {
	mutex    sync.RWMutex
	coupons  [][]string
	settings [][]string
}

var _ coupon.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) LoadCoupons() ([]coupon.Coupon, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return sheet.DecodeCoupons(r.coupons), nil
}

func (r *Repository) SaveCoupons(coupons []coupon.Coupon) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.coupons = sheet.EncodeCoupons(coupons)
	return nil
}

func (r *Repository) LoadSettings() (coupon.Settings, bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	settings, ok := sheet.DecodeSettings(r.settings)
	return settings, ok, nil
}

func (r *Repository) SaveSettings(settings coupon.Settings) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.settings = sheet.EncodeSettings(settings)
	return nil
}
