// Package csvfile backs the coupon table with local CSV files, for
// development and offline use. Same whole-table semantics as gsheets.
package csvfile

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/kuponim/kuponim/core"
	"github.com/kuponim/kuponim/core/coupon"
	"github.com/kuponim/kuponim/storage/sheet"
)

const (
	couponsFile  = "coupons.csv"
	settingsFile = "settings.csv"
)

type repository struct {
	dir string
}

var _ coupon.Repository = (*repository)(nil)

func NewRepository(conf *core.Config) (coupon.Repository, error) {
	if err := os.MkdirAll(conf.Sheet.CSVDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	return &repository{dir: conf.Sheet.CSVDir}, nil
}

func (r *repository) LoadCoupons() ([]coupon.Coupon, error) {
	rows, err := r.read(couponsFile)
	if err != nil {
		return nil, err
	}
	return sheet.DecodeCoupons(rows), nil
}

func (r *repository) SaveCoupons(coupons []coupon.Coupon) error {
	return r.write(couponsFile, sheet.EncodeCoupons(coupons))
}

func (r *repository) LoadSettings() (coupon.Settings, bool, error) {
	rows, err := r.read(settingsFile)
	if err != nil {
		return coupon.Settings{}, false, err
	}
	settings, ok := sheet.DecodeSettings(rows)
	return settings, ok, nil
}

func (r *repository) SaveSettings(settings coupon.Settings) error {
	return r.write(settingsFile, sheet.EncodeSettings(settings))
}

func (r *repository) read(name string) ([][]string, error) {
	f, err := os.Open(filepath.Join(r.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // empty table until the first save
		}
		return nil, errors.Wrapf(err, "opening %s", name)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // legacy files may have ragged rows
	rows, err := reader.ReadAll()
	return rows, errors.Wrapf(err, "reading %s", name)
}

func (r *repository) write(name string, rows [][]string) error {
	path := filepath.Join(r.dir, name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "creating %s", name)
	}

	writer := csv.NewWriter(f)
	if err = writer.WriteAll(rows); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "writing %s", name)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", name)
	}
	return errors.Wrapf(os.Rename(tmp, path), "replacing %s", name)
}
