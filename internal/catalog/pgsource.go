// internal/catalog/pgsource.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// phonesQuery reads the catalog in insertion order so the in-memory
// store keeps a deterministic catalog sequence for stable ranking.
const phonesQuery = `
	SELECT id, brand, model, price, camera_mp, ois, eis,
	       battery_mah, charging_w, display_inches, amoled, soc,
	       compact, summary, pros, cons
	FROM phones
	ORDER BY ordinal`

// NewStoreFromPostgres loads the catalog from a phones table. Pros and
// cons columns hold JSON arrays of strings.
func NewStoreFromPostgres(ctx context.Context, db *sql.DB) (*Store, error) {
	rows, err := db.QueryContext(ctx, phonesQuery)
	if err != nil {
		return nil, fmt.Errorf("query phones: %w", err)
	}
	defer rows.Close()

	var phones []Phone
	for rows.Next() {
		var p Phone
		var pros, cons []byte
		err := rows.Scan(
			&p.ID, &p.Brand, &p.Model, &p.Price, &p.CameraMP, &p.OIS, &p.EIS,
			&p.BatteryMAh, &p.ChargingW, &p.DisplayInches, &p.AMOLED, &p.SoC,
			&p.Compact, &p.Summary, &pros, &cons,
		)
		if err != nil {
			return nil, fmt.Errorf("scan phone row: %w", err)
		}

		if err := json.Unmarshal(pros, &p.Pros); err != nil {
			p.Pros = []string{}
		}
		if err := json.Unmarshal(cons, &p.Cons); err != nil {
			p.Cons = []string{}
		}

		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phone rows: %w", err)
	}

	if err := ValidateRecords(phones); err != nil {
		return nil, fmt.Errorf("postgres catalog invalid: %w", err)
	}

	return NewStore(phones), nil
}
