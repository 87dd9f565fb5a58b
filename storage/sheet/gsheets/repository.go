// Package gsheets backs the coupon table with a Google Sheets spreadsheet,
// the way the wallet was originally kept. Reads always hit the API (no
// staleness window); writes clear the sheet and rewrite the whole table.
package gsheets

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/kuponim/kuponim/core"
	"github.com/kuponim/kuponim/core/coupon"
	"github.com/kuponim/kuponim/storage/sheet"
)

type repository struct {
	svc           *sheets.Service
	spreadsheetID string
	couponsSheet  string
	settingsSheet string
}

var _ coupon.Repository = (*repository)(nil)

func NewRepository(ctx context.Context, conf *core.Config) (coupon.Repository, error) {
	svc, err := sheets.NewService(
		ctx,
		option.WithCredentialsFile(conf.Sheet.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating sheets client")
	}
	return &repository{
		svc:           svc,
		spreadsheetID: conf.Sheet.SpreadsheetID,
		couponsSheet:  conf.Sheet.CouponsSheet,
		settingsSheet: conf.Sheet.SettingsSheet,
	}, nil
}

func (r *repository) LoadCoupons() ([]coupon.Coupon, error) {
	rows, err := r.read(r.couponsSheet)
	if err != nil {
		return nil, err
	}
	return sheet.DecodeCoupons(rows), nil
}

func (r *repository) SaveCoupons(coupons []coupon.Coupon) error {
	return r.write(r.couponsSheet, sheet.EncodeCoupons(coupons))
}

func (r *repository) LoadSettings() (coupon.Settings, bool, error) {
	rows, err := r.read(r.settingsSheet)
	if err != nil {
		return coupon.Settings{}, false, err
	}
	settings, ok := sheet.DecodeSettings(rows)
	return settings, ok, nil
}

func (r *repository) SaveSettings(settings coupon.Settings) error {
	return r.write(r.settingsSheet, sheet.EncodeSettings(settings))
}

func (r *repository) read(sheetName string) ([][]string, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, sheetName).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheetName)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *repository) write(sheetName string, rows [][]string) error {
	if _, err := r.svc.Spreadsheets.Values.
		Clear(r.spreadsheetID, sheetName, &sheets.ClearValuesRequest{}).Do(); err != nil {
		return errors.Wrapf(err, "clearing sheet %q", sheetName)
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}

	_, err := r.svc.Spreadsheets.Values.
		Update(r.spreadsheetID, sheetName, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Do()
	return errors.Wrapf(err, "updating sheet %q", sheetName)
}
