package refdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// LoadSQL reads a dataset from tables created by db.Open.
func LoadSQL(ctx context.Context, db *sql.DB) (Dataset, error) {
	var ds Dataset
	err := db.QueryRowContext(ctx, `SELECT value FROM dataset_meta WHERE key='version'`).Scan(&ds.Version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, err
	}

	unis, err := loadUniversities(ctx, db)
	if err != nil {
		return Dataset{}, fmt.Errorf("load universities: %w", err)
	}
	ds.Universities = unis

	tables, err := loadMeritTables(ctx, db)
	if err != nil {
		return Dataset{}, fmt.Errorf("load merit tables: %w", err)
	}
	ds.MeritTables = tables

	rows, err := db.QueryContext(ctx, `SELECT id,name,pattern_json FROM test_patterns ORDER BY ord`)
	if err != nil {
		return Dataset{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var tp UniversityTestPattern
		var pj string
		if err := rows.Scan(&tp.ID, &tp.Name, &pj); err != nil {
			return Dataset{}, err
		}
		if err := json.Unmarshal([]byte(pj), &tp.Pattern); err != nil {
			return Dataset{}, fmt.Errorf("test pattern %s: %w", tp.ID, err)
		}
		ds.TestPatterns = append(ds.TestPatterns, tp)
	}
	return ds, rows.Err()
}

func loadUniversities(ctx context.Context, db *sql.DB) ([]University, error) {
	rows, err := db.QueryContext(ctx, `SELECT id,name,short_name,website,application_deadline,application_fee,description,merit_history_json,merit_estimate_json
		FROM universities ORDER BY ord`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []University
	for rows.Next() {
		var u University
		var hist, est string
		if err := rows.Scan(&u.ID, &u.Name, &u.ShortName, &u.Website, &u.ApplicationDeadline, &u.ApplicationFee, &u.Description, &hist, &est); err != nil {
			return nil, err
		}
		if hist != "" {
			if err := json.Unmarshal([]byte(hist), &u.MeritHistory); err != nil {
				return nil, fmt.Errorf("university %s merit history: %w", u.ID, err)
			}
		}
		if est != "" {
			u.MeritEstimate = &MeritEstimate{}
			if err := json.Unmarshal([]byte(est), u.MeritEstimate); err != nil {
				return nil, fmt.Errorf("university %s merit estimate: %w", u.ID, err)
			}
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		progs, err := loadPrograms(ctx, db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Programs = progs
	}
	return out, nil
}

func loadPrograms(ctx context.Context, db *sql.DB, universityID string) ([]Program, error) {
	rows, err := db.QueryContext(ctx, `SELECT id,name,test_options_json,formula_json,minimum_json,bands_json,notes
		FROM programs WHERE university_id=$1 ORDER BY ord`, universityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Program
	for rows.Next() {
		var p Program
		var tj, fj, mj, bj string
		if err := rows.Scan(&p.ID, &p.Name, &tj, &fj, &mj, &bj, &p.Notes); err != nil {
			return nil, err
		}
		for _, col := range []struct {
			raw string
			dst any
		}{{tj, &p.TestOptions}, {fj, &p.Formula}, {mj, &p.MinimumCriteria}, {bj, &p.AdmissionChances}} {
			if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
				return nil, fmt.Errorf("program %s/%s: %w", universityID, p.ID, err)
			}
		}
		if len(p.TestOptions) == 0 {
			p.TestOptions = nil
		}
		if len(p.AdmissionChances) == 0 {
			p.AdmissionChances = nil
		}
		p.Formula = fractionFormula(p.Formula)
		out = append(out, p)
	}
	return out, rows.Err()
}

func loadMeritTables(ctx context.Context, db *sql.DB) ([]UniversityMeritTable, error) {
	rows, err := db.QueryContext(ctx, `SELECT t.id, t.name, e.campus, e.program_name, e.merit_number, e.merit_text,
		e.entry_campus, e.shift, e.category, e.seats
		FROM merit_tables t LEFT JOIN merit_entries e ON e.table_id = t.id
		ORDER BY t.ord, e.campus_ord, e.ord`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UniversityMeritTable
	for rows.Next() {
		var (
			id, name                                  string
			campus, prog, text, ecampus, shift, categ sql.NullString
			num                                       sql.NullFloat64
			seats                                     sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &campus, &prog, &num, &text, &ecampus, &shift, &categ, &seats); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != id {
			out = append(out, UniversityMeritTable{ID: id, Name: name})
		}
		if !prog.Valid {
			continue // table without entries
		}
		t := &out[len(out)-1]
		if len(t.Campuses) == 0 || t.Campuses[len(t.Campuses)-1].Campus != campus.String {
			t.Campuses = append(t.Campuses, CampusMeritGroup{Campus: campus.String})
		}
		e := MeritEntry{
			ProgramName: prog.String,
			Merit:       TextMerit(text.String),
			Campus:      ecampus.String,
			Shift:       shift.String,
			Category:    categ.String,
			Seats:       int(seats.Int64),
		}
		if num.Valid {
			e.Merit = NumberMerit(num.Float64)
		}
		c := &t.Campuses[len(t.Campuses)-1]
		c.Programs = append(c.Programs, e)
	}
	return out, rows.Err()
}

// SeedSQL replaces the stored dataset with ds in a single transaction.
func SeedSQL(ctx context.Context, db *sql.DB, ds Dataset) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		`DELETE FROM merit_entries`, `DELETE FROM merit_tables`,
		`DELETE FROM programs`, `DELETE FROM universities`,
		`DELETE FROM test_patterns`, `DELETE FROM dataset_meta`,
	} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO dataset_meta (key,value) VALUES ('version',$1)`, ds.Version); err != nil {
		return err
	}

	for i, u := range ds.Universities {
		hist, est := "", ""
		if len(u.MeritHistory) > 0 {
			if hist, err = marshalString(u.MeritHistory); err != nil {
				return fmt.Errorf("university %s merit history: %w", u.ID, err)
			}
		}
		if u.MeritEstimate != nil {
			if est, err = marshalString(u.MeritEstimate); err != nil {
				return fmt.Errorf("university %s merit estimate: %w", u.ID, err)
			}
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO universities
			(id,ord,name,short_name,website,application_deadline,application_fee,description,merit_history_json,merit_estimate_json)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			u.ID, i, u.Name, u.ShortName, u.Website, u.ApplicationDeadline, u.ApplicationFee, u.Description, hist, est)
		if err != nil {
			return fmt.Errorf("insert university %s: %w", u.ID, err)
		}
		for j, p := range u.Programs {
			var cols [4]string
			for k, v := range []any{nonNil(p.TestOptions), p.Formula, p.MinimumCriteria, nonNil(p.AdmissionChances)} {
				if cols[k], err = marshalString(v); err != nil {
					return fmt.Errorf("program %s/%s: %w", u.ID, p.ID, err)
				}
			}
			_, err = tx.ExecContext(ctx, `INSERT INTO programs
				(university_id,id,ord,name,test_options_json,formula_json,minimum_json,bands_json,notes)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
				u.ID, p.ID, j, p.Name, cols[0], cols[1], cols[2], cols[3], p.Notes)
			if err != nil {
				return fmt.Errorf("insert program %s/%s: %w", u.ID, p.ID, err)
			}
		}
	}

	for i, t := range ds.MeritTables {
		if _, err = tx.ExecContext(ctx, `INSERT INTO merit_tables (id,ord,name) VALUES ($1,$2,$3)`, t.ID, i, t.Name); err != nil {
			return fmt.Errorf("insert merit table %s: %w", t.ID, err)
		}
		for ci, c := range t.Campuses {
			for pi, e := range c.Programs {
				var num sql.NullFloat64
				if e.Merit.IsNumber() {
					num = sql.NullFloat64{Float64: *e.Merit.Number, Valid: true}
				}
				_, err = tx.ExecContext(ctx, `INSERT INTO merit_entries
					(table_id,campus,campus_ord,ord,program_name,merit_number,merit_text,entry_campus,shift,category,seats)
					VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
					t.ID, c.Campus, ci, pi, e.ProgramName, num, e.Merit.Text, e.Campus, e.Shift, e.Category, e.Seats)
				if err != nil {
					return fmt.Errorf("insert merit entry %s/%s/%s: %w", t.ID, c.Campus, e.ProgramName, err)
				}
			}
		}
	}

	for i, tp := range ds.TestPatterns {
		var pj string
		if pj, err = marshalString(tp.Pattern); err != nil {
			return fmt.Errorf("test pattern %s: %w", tp.ID, err)
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO test_patterns (id,ord,name,pattern_json) VALUES ($1,$2,$3,$4)`,
			tp.ID, i, tp.Name, pj); err != nil {
			return fmt.Errorf("insert test pattern %s: %w", tp.ID, err)
		}
	}
	return tx.Commit()
}

func marshalString(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
