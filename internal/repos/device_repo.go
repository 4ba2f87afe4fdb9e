package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"devinv/internal/domain"
	"devinv/internal/inventory"
)

// DeviceRepo persists devices in the devices table. Ids are row ids and stay
// stable across deletes.
type DeviceRepo struct{ db *sqlx.DB }

var _ inventory.Store = (*DeviceRepo)(nil)

func NewDeviceRepo(db *sqlx.DB) *DeviceRepo { return &DeviceRepo{db: db} }

// deviceRow mirrors the table; every column except name is nullable.
type deviceRow struct {
	ID            int64               `db:"id"`
	Name          string              `db:"name"`
	Model         sql.NullString      `db:"model"`
	Category      sql.NullString      `db:"category"`
	VideocardType sql.NullString      `db:"videocard_type"`
	Price         decimal.NullDecimal `db:"price"`
	CPU           sql.NullString      `db:"cpu"`
	RAMGB         sql.NullInt64       `db:"ram_gb"`
	StorageGB     sql.NullInt64       `db:"storage_gb"`
	ScreenInch    sql.NullFloat64     `db:"screen_inch"`
	BatteryWh     sql.NullInt64       `db:"battery_wh"`
	PSUWatt       sql.NullInt64       `db:"psu_watt"`
	CaseFormat    sql.NullString      `db:"case_format"`
}

const deviceColumns = `id, name, model, category, videocard_type, price, cpu, ram_gb, storage_gb, screen_inch, battery_wh, psu_watt, case_format`

func str(s string) sql.NullString { return sql.NullString{String: s, Valid: s != ""} }

func i64(n int) sql.NullInt64 { return sql.NullInt64{Int64: int64(n), Valid: true} }

func toRow(d domain.Device) deviceRow {
	r := deviceRow{
		ID:        d.ID,
		Name:      d.Name,
		Category:  str(string(d.Category)),
		Price:     decimal.NullDecimal{Decimal: d.Price, Valid: true},
		CPU:       str(d.CPU),
		RAMGB:     i64(d.RAMGB),
		StorageGB: i64(d.StorageGB),
	}
	switch d.Category {
	case domain.CategoryLaptop:
		if s := d.Laptop; s != nil {
			r.VideocardType = str(s.GPU)
			r.ScreenInch = sql.NullFloat64{Float64: s.ScreenInch, Valid: true}
			r.BatteryWh = i64(s.BatteryWh)
		}
	case domain.CategoryPC:
		if s := d.PC; s != nil {
			r.VideocardType = str(s.GPU)
			r.PSUWatt = i64(s.PSUWatt)
			r.CaseFormat = str(s.CaseFormat)
		}
	case domain.CategoryTablet:
		if s := d.Tablet; s != nil {
			r.ScreenInch = sql.NullFloat64{Float64: s.ScreenInch, Valid: true}
			r.BatteryWh = i64(s.BatteryWh)
		}
	case domain.CategoryDevice:
		if s := d.Generic; s != nil {
			r.Model = str(s.Model)
			r.VideocardType = str(s.VideocardType)
		}
	}
	return r
}

// toDevice rebuilds a record. NULL category-specific columns fall back to the
// category defaults; rows with an unknown category load as generic devices.
func (r deviceRow) toDevice() domain.Device {
	c, ok := domain.ParseCategory(r.Category.String)
	if !ok {
		c = domain.CategoryDevice
	}
	d := domain.New(c)
	d.ID = r.ID
	d.Name = r.Name
	d.CPU = r.CPU.String
	d.RAMGB = int(r.RAMGB.Int64)
	d.StorageGB = int(r.StorageGB.Int64)
	if r.Price.Valid {
		d.Price = r.Price.Decimal
	}

	switch c {
	case domain.CategoryLaptop:
		if r.VideocardType.Valid {
			d.Laptop.GPU = r.VideocardType.String
		}
		if r.ScreenInch.Valid {
			d.Laptop.ScreenInch = r.ScreenInch.Float64
		}
		if r.BatteryWh.Valid {
			d.Laptop.BatteryWh = int(r.BatteryWh.Int64)
		}
	case domain.CategoryPC:
		if r.VideocardType.Valid {
			d.PC.GPU = r.VideocardType.String
		}
		if r.PSUWatt.Valid {
			d.PC.PSUWatt = int(r.PSUWatt.Int64)
		}
		if r.CaseFormat.Valid {
			d.PC.CaseFormat = r.CaseFormat.String
		}
	case domain.CategoryTablet:
		if r.ScreenInch.Valid {
			d.Tablet.ScreenInch = r.ScreenInch.Float64
		}
		if r.BatteryWh.Valid {
			d.Tablet.BatteryWh = int(r.BatteryWh.Int64)
		}
	case domain.CategoryDevice:
		d.Generic.Model = r.Model.String
		d.Generic.VideocardType = r.VideocardType.String
	}
	return d
}

const insertDevice = `
	INSERT INTO devices(name, model, category, videocard_type, price, cpu,
	  ram_gb, storage_gb, screen_inch, battery_wh, psu_watt, case_format)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insert(ctx context.Context, tx *sqlx.Tx, d domain.Device) (domain.Device, error) {
	r := toRow(d)
	res, err := tx.ExecContext(ctx, insertDevice,
		r.Name, r.Model, r.Category, r.VideocardType, r.Price, r.CPU,
		r.RAMGB, r.StorageGB, r.ScreenInch, r.BatteryWh, r.PSUWatt, r.CaseFormat)
	if err != nil {
		return domain.Device{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Device{}, err
	}
	out := d.Clone()
	out.ID = id
	return out, nil
}

func (r *DeviceRepo) Add(ctx context.Context, d domain.Device) (domain.Device, error) {
	if err := d.Check(); err != nil {
		return domain.Device{}, err
	}
	var out domain.Device
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		out, err = insert(ctx, tx, d)
		return err
	})
	if err != nil {
		return domain.Device{}, &domain.PersistenceError{Op: "devices.add", Err: err}
	}
	return out, nil
}

func (r *DeviceRepo) AddAll(ctx context.Context, ds []domain.Device) ([]domain.Device, error) {
	for _, d := range ds {
		if err := d.Check(); err != nil {
			return nil, err
		}
	}
	out := make([]domain.Device, 0, len(ds))
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, d := range ds {
			saved, err := insert(ctx, tx, d)
			if err != nil {
				return err
			}
			out = append(out, saved)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.PersistenceError{Op: "devices.add_all", Err: err}
	}
	return out, nil
}

// Remove deletes the row; a missing id affects no rows and is not an error.
func (r *DeviceRepo) Remove(ctx context.Context, id int64) error {
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return &domain.PersistenceError{Op: "devices.remove", Err: err}
	}
	return nil
}

// Replace overwrites every column of the row; a missing id is not an error.
func (r *DeviceRepo) Replace(ctx context.Context, id int64, d domain.Device) error {
	if err := d.Check(); err != nil {
		return err
	}
	row := toRow(d)
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE devices
			SET name = ?, model = ?, category = ?, videocard_type = ?, price = ?, cpu = ?,
			    ram_gb = ?, storage_gb = ?, screen_inch = ?, battery_wh = ?, psu_watt = ?, case_format = ?
			WHERE id = ?
		`, row.Name, row.Model, row.Category, row.VideocardType, row.Price, row.CPU,
			row.RAMGB, row.StorageGB, row.ScreenInch, row.BatteryWh, row.PSUWatt, row.CaseFormat, id)
		return err
	})
	if err != nil {
		return &domain.PersistenceError{Op: "devices.replace", Err: err}
	}
	return nil
}

func (r *DeviceRepo) Get(ctx context.Context, id int64) (domain.Device, error) {
	var row deviceRow
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &row, `SELECT `+deviceColumns+` FROM devices WHERE id = ?`, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Device{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Device{}, &domain.PersistenceError{Op: "devices.get", Err: err}
	}
	return row.toDevice(), nil
}

func (r *DeviceRepo) List(ctx context.Context) ([]domain.Device, error) {
	var rows []deviceRow
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &rows, `SELECT `+deviceColumns+` FROM devices ORDER BY id`)
	})
	if err != nil {
		return nil, &domain.PersistenceError{Op: "devices.list", Err: err}
	}
	out := make([]domain.Device, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDevice())
	}
	return out, nil
}

// Clear deletes every row. Ids are not reused afterwards.
func (r *DeviceRepo) Clear(ctx context.Context) (int64, error) {
	var n int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM devices`)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, &domain.PersistenceError{Op: "devices.clear", Err: err}
	}
	return n, nil
}
